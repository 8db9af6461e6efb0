package persistence

import (
	"context"
	"fmt"

	"github.com/curbspot/curbspot/internal/availability/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresReservationProvider reads blocking reservations from the
// bookings store. The status and overlap pre-filters live in the query, so
// the engine never re-reads full history.
//
// Expected table:
//
//	reservations (
//	    id          uuid PRIMARY KEY,
//	    resource_id uuid NOT NULL,
//	    renter_id   uuid NOT NULL,
//	    start_time  timestamptz NOT NULL,
//	    end_time    timestamptz NOT NULL,
//	    status      text NOT NULL
//	)
type PostgresReservationProvider struct {
	pool *pgxpool.Pool
}

// NewPostgresReservationProvider creates a postgres-backed reservation provider.
func NewPostgresReservationProvider(pool *pgxpool.Pool) *PostgresReservationProvider {
	return &PostgresReservationProvider{pool: pool}
}

// ListBlocking returns slot-holding reservations that could overlap the
// queried interval, ordered by start time so the first conflict found is
// the earliest one.
func (p *PostgresReservationProvider) ListBlocking(ctx context.Context, resourceID uuid.UUID, around domain.Interval) ([]domain.Reservation, error) {
	query := `
		SELECT id, resource_id, renter_id, start_time, end_time, status
		FROM reservations
		WHERE resource_id = $1
		  AND status = ANY($2)
		  AND start_time < $3
		  AND end_time > $4
		ORDER BY start_time
	`

	statuses := make([]string, 0, 3)
	for _, s := range domain.BlockingStatuses() {
		statuses = append(statuses, string(s))
	}

	rows, err := p.pool.Query(ctx, query, resourceID, statuses, around.End, around.Start)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var r domain.Reservation
		var status string
		if err := rows.Scan(&r.ID, &r.ResourceID, &r.RenterID, &r.Interval.Start, &r.Interval.End, &status); err != nil {
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		r.Status = domain.ReservationStatus(status)
		reservations = append(reservations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read reservation rows: %w", err)
	}
	return reservations, nil
}
