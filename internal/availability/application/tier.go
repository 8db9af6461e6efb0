package application

import (
	"time"

	"github.com/curbspot/curbspot/internal/availability/domain"
	"github.com/google/uuid"
)

// ResolveTier derives the disclosure tier for a viewer from their
// relationship to the resource: the owner sees everything, a guest whose
// reservation is active right now sees everything, anyone else gets the
// restricted view. viewerReservations is the viewer's own reservation set
// for this resource, as returned by the bookings store. Computed fresh per
// request; tiers are never stored.
func ResolveTier(viewerID, ownerID uuid.UUID, viewerReservations []domain.Reservation, now time.Time) domain.DisclosureTier {
	if viewerID == ownerID {
		return domain.TierOwner
	}
	for _, r := range viewerReservations {
		if r.RenterID != viewerID {
			continue
		}
		if r.Status == domain.StatusActive && r.Interval.Contains(now) {
			return domain.TierCheckedInGuest
		}
	}
	return domain.TierOther
}
