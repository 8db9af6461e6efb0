package domain

import (
	"github.com/google/uuid"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusActive    ReservationStatus = "active"
	// StatusCompleted covers a finished stay whose slot has not been
	// released back yet; it still blocks competing bookings.
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusExpired   ReservationStatus = "expired"
)

// Blocks reports whether a reservation in this status holds the slot and
// should prevent an overlapping booking.
func (s ReservationStatus) Blocks() bool {
	switch s {
	case StatusConfirmed, StatusActive, StatusCompleted:
		return true
	default:
		return false
	}
}

// BlockingStatuses lists every status that holds a slot, for providers
// that pre-filter at the query level.
func BlockingStatuses() []ReservationStatus {
	return []ReservationStatus{StatusConfirmed, StatusActive, StatusCompleted}
}

// Reservation is an existing booking of a resource.
type Reservation struct {
	ID         uuid.UUID         `json:"id"`
	ResourceID uuid.UUID         `json:"resource_id"`
	RenterID   uuid.UUID         `json:"renter_id"`
	Interval   Interval          `json:"interval"`
	Status     ReservationStatus `json:"status"`
}
