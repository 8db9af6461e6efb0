package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/curbspot/curbspot/internal/availability/domain"
	"github.com/google/uuid"
)

// SQLiteScheduleProvider implements domain.ScheduleProvider against a
// local SQLite database, mirroring the postgres provider for local mode.
type SQLiteScheduleProvider struct {
	db *sql.DB
}

// NewSQLiteScheduleProvider creates a SQLite-backed schedule provider.
func NewSQLiteScheduleProvider(db *sql.DB) *SQLiteScheduleProvider {
	return &SQLiteScheduleProvider{db: db}
}

// GetSchedule loads the full weekly schedule for a resource.
func (p *SQLiteScheduleProvider) GetSchedule(ctx context.Context, resourceID uuid.UUID) (*domain.WeeklySchedule, error) {
	query := `
		SELECT day_of_week, is_open, opens_at, closes_at, timezone
		FROM space_schedules
		WHERE resource_id = ?
		ORDER BY day_of_week
	`

	rows, err := p.db.QueryContext(ctx, query, resourceID.String())
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	defer rows.Close()

	var schedule domain.WeeklySchedule
	found := false
	for rows.Next() {
		var day int
		var isOpen int64
		var opensAt, closesAt, timezone string
		if err := rows.Scan(&day, &isOpen, &opensAt, &closesAt, &timezone); err != nil {
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		if day < 0 || day > int(time.Saturday) {
			return nil, fmt.Errorf("resource %s: day_of_week %d out of range", resourceID, day)
		}
		window, err := parseWindow(isOpen != 0, opensAt, closesAt)
		if err != nil {
			return nil, fmt.Errorf("resource %s day %d: %w", resourceID, day, err)
		}
		schedule.Days[day] = window
		schedule.Timezone = timezone
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read schedule rows: %w", err)
	}
	if !found {
		return nil, domain.ErrResourceNotFound
	}
	return &schedule, nil
}

// SaveSchedule writes a weekly schedule, replacing any existing one. The
// engine itself never calls this; it exists for local-mode seeding and
// tests.
func (p *SQLiteScheduleProvider) SaveSchedule(ctx context.Context, resourceID uuid.UUID, schedule domain.WeeklySchedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save schedule: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM space_schedules WHERE resource_id = ?`, resourceID.String()); err != nil {
		return fmt.Errorf("clear schedule: %w", err)
	}

	insert := `
		INSERT INTO space_schedules (resource_id, day_of_week, is_open, opens_at, closes_at, timezone)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for day, window := range schedule.Days {
		isOpen := int64(0)
		if window.Open {
			isOpen = 1
		}
		_, err := tx.ExecContext(ctx, insert,
			resourceID.String(),
			day,
			isOpen,
			window.OpensAt.String(),
			window.ClosesAt.String(),
			schedule.Timezone,
		)
		if err != nil {
			return fmt.Errorf("insert schedule day %d: %w", day, err)
		}
	}

	return tx.Commit()
}
