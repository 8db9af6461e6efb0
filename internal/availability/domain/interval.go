package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidInterval = errors.New("interval end must be after start")

// Interval is a half-open time range [Start, End). It is never empty or
// negative-length; construct through NewInterval to enforce that.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval creates an interval, rejecting zero or negative length.
func NewInterval(start, end time.Time) (Interval, error) {
	if !end.After(start) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// MustInterval is a test and wiring helper that panics on an invalid range.
func MustInterval(start, end time.Time) Interval {
	iv, err := NewInterval(start, end)
	if err != nil {
		panic(fmt.Sprintf("invalid interval %s..%s: %v", start, end, err))
	}
	return iv
}

// Overlaps reports whether two intervals share a positive-length
// intersection. Touching endpoints do not overlap, so back-to-back
// bookings are allowed.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether t falls within the interval.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Duration returns the interval length.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) String() string {
	return fmt.Sprintf("%s..%s", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}
