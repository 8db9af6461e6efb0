package domain

// ConflictCheck is the outcome of scanning existing reservations against a
// requested interval. With points at the first colliding reservation in
// input order; callers wanting the earliest collision pre-sort by start.
type ConflictCheck struct {
	Conflict bool
	With     *Reservation
}

// FindConflict reports whether the requested interval overlaps any of the
// given reservations. Overlap is half-open, so a reservation ending
// exactly when the request begins does not conflict. The input set is
// trusted: non-blocking reservations must be filtered out by the caller,
// statuses are not reinterpreted here. Pure.
func FindConflict(requested Interval, existing []Reservation) ConflictCheck {
	for i := range existing {
		if requested.Overlaps(existing[i].Interval) {
			return ConflictCheck{Conflict: true, With: &existing[i]}
		}
	}
	return ConflictCheck{}
}
