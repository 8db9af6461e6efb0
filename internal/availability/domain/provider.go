package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrResourceNotFound is returned by providers for unknown or deactivated
// resources. Deactivation gating itself is an upstream concern; the engine
// only ever sees a schedule to evaluate.
var ErrResourceNotFound = errors.New("resource not found")

// ScheduleProvider is the external listings store boundary.
type ScheduleProvider interface {
	GetSchedule(ctx context.Context, resourceID uuid.UUID) (*WeeklySchedule, error)
}

// ReservationProvider is the external bookings store boundary. It is
// expected to pre-filter to blocking statuses and to reservations that
// could plausibly overlap the queried interval; the engine does not
// re-query history.
type ReservationProvider interface {
	ListBlocking(ctx context.Context, resourceID uuid.UUID, around Interval) ([]Reservation, error)
}
