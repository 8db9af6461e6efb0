package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/curbspot/curbspot/internal/availability/domain"
	"github.com/google/uuid"
)

// SQLiteReservationProvider implements domain.ReservationProvider against
// a local SQLite database.
type SQLiteReservationProvider struct {
	db *sql.DB
}

// NewSQLiteReservationProvider creates a SQLite-backed reservation provider.
func NewSQLiteReservationProvider(db *sql.DB) *SQLiteReservationProvider {
	return &SQLiteReservationProvider{db: db}
}

// ListBlocking returns slot-holding reservations that could overlap the
// queried interval, ordered by start time.
func (p *SQLiteReservationProvider) ListBlocking(ctx context.Context, resourceID uuid.UUID, around domain.Interval) ([]domain.Reservation, error) {
	statuses := domain.BlockingStatuses()
	placeholders := strings.TrimRight(strings.Repeat("?,", len(statuses)), ",")

	query := fmt.Sprintf(`
		SELECT id, resource_id, renter_id, start_time, end_time, status
		FROM reservations
		WHERE resource_id = ?
		  AND status IN (%s)
		  AND start_time < ?
		  AND end_time > ?
		ORDER BY start_time
	`, placeholders)

	args := make([]any, 0, len(statuses)+3)
	args = append(args, resourceID.String())
	for _, s := range statuses {
		args = append(args, string(s))
	}
	args = append(args, around.End.UTC().Format(time.RFC3339), around.Start.UTC().Format(time.RFC3339))

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read reservation rows: %w", err)
	}
	return reservations, nil
}

// SaveReservation inserts a reservation. For local-mode seeding and tests
// only; bookings are owned by the excluded CRUD layer.
func (p *SQLiteReservationProvider) SaveReservation(ctx context.Context, r domain.Reservation) error {
	query := `
		INSERT INTO reservations (id, resource_id, renter_id, start_time, end_time, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := p.db.ExecContext(ctx, query,
		r.ID.String(),
		r.ResourceID.String(),
		r.RenterID.String(),
		r.Interval.Start.UTC().Format(time.RFC3339),
		r.Interval.End.UTC().Format(time.RFC3339),
		string(r.Status),
	)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func scanReservation(rows *sql.Rows) (domain.Reservation, error) {
	var r domain.Reservation
	var id, resourceID, renterID string
	var startTime, endTime, status string
	if err := rows.Scan(&id, &resourceID, &renterID, &startTime, &endTime, &status); err != nil {
		return r, fmt.Errorf("scan reservation row: %w", err)
	}

	var err error
	if r.ID, err = uuid.Parse(id); err != nil {
		return r, fmt.Errorf("parse reservation id: %w", err)
	}
	if r.ResourceID, err = uuid.Parse(resourceID); err != nil {
		return r, fmt.Errorf("parse resource id: %w", err)
	}
	if r.RenterID, err = uuid.Parse(renterID); err != nil {
		return r, fmt.Errorf("parse renter id: %w", err)
	}
	if r.Interval.Start, err = time.Parse(time.RFC3339, startTime); err != nil {
		return r, fmt.Errorf("parse start time: %w", err)
	}
	if r.Interval.End, err = time.Parse(time.RFC3339, endTime); err != nil {
		return r, fmt.Errorf("parse end time: %w", err)
	}
	r.Status = domain.ReservationStatus(status)
	return r, nil
}
