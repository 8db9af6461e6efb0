// Package persistence implements the availability provider boundary
// against postgres (shared deployments) and SQLite (local mode).
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/curbspot/curbspot/internal/availability/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresScheduleProvider reads weekly schedules from the listings store.
//
// Expected table:
//
//	space_schedules (
//	    resource_id uuid NOT NULL,
//	    day_of_week int  NOT NULL,  -- 0 = Sunday
//	    is_open     boolean NOT NULL,
//	    opens_at    text NOT NULL,  -- "HH:MM"
//	    closes_at   text NOT NULL,
//	    timezone    text NOT NULL,
//	    PRIMARY KEY (resource_id, day_of_week)
//	)
type PostgresScheduleProvider struct {
	pool *pgxpool.Pool
}

// NewPostgresScheduleProvider creates a postgres-backed schedule provider.
func NewPostgresScheduleProvider(pool *pgxpool.Pool) *PostgresScheduleProvider {
	return &PostgresScheduleProvider{pool: pool}
}

// GetSchedule loads the full weekly schedule for a resource.
func (p *PostgresScheduleProvider) GetSchedule(ctx context.Context, resourceID uuid.UUID) (*domain.WeeklySchedule, error) {
	query := `
		SELECT day_of_week, is_open, opens_at, closes_at, timezone
		FROM space_schedules
		WHERE resource_id = $1
		ORDER BY day_of_week
	`

	rows, err := p.pool.Query(ctx, query, resourceID)
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	defer rows.Close()

	var schedule domain.WeeklySchedule
	found := false
	for rows.Next() {
		var day int
		var isOpen bool
		var opensAt, closesAt, timezone string
		if err := rows.Scan(&day, &isOpen, &opensAt, &closesAt, &timezone); err != nil {
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		if day < 0 || day > int(time.Saturday) {
			return nil, fmt.Errorf("resource %s: day_of_week %d out of range", resourceID, day)
		}
		window, err := parseWindow(isOpen, opensAt, closesAt)
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

func parseWindow(isOpen bool, opensAt, closesAt string) (domain.DayWindow, error) {
	if !isOpen {
		return domain.DayWindow{}, nil
	}
	opens, err := domain.ParseClock(opensAt)
	if err != nil {
		return domain.DayWindow{}, err
	}
	closes, err := domain.ParseClock(closesAt)
	if err != nil {
		return domain.DayWindow{}, err
	}
	return domain.DayWindow{Open: true, OpensAt: opens, ClosesAt: closes}, nil
}
