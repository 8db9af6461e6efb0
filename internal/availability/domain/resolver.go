package domain

import (
	"fmt"
	"time"
)

// Machine-readable reasons for a closed verdict.
const (
	ReasonCrossesDayBoundary = "crosses-day-boundary"
	ReasonClosedAllDay       = "closed-all-day"
)

// Resolution is the outcome of evaluating an interval against a schedule.
type Resolution struct {
	Open   bool
	Reason string
}

// Resolve decides whether the requested interval falls inside the
// schedule's open hours. Both endpoints must land on the same local
// calendar day; multi-day requests have to be decomposed by the caller.
// Boundaries are inclusive: starting exactly at opening or ending exactly
// at closing is open. Pure and deterministic.
func Resolve(schedule WeeklySchedule, interval Interval) Resolution {
	loc := schedule.Location()
	start := interval.Start.In(loc)
	end := interval.End.In(loc)

	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy != ey || sm != em || sd != ed {
		return Resolution{Reason: ReasonCrossesDayBoundary}
	}

	window := schedule.Window(start.Weekday())
	if !window.Open {
		return Resolution{Reason: ReasonClosedAllDay}
	}

	if sinceMidnight(start) < window.OpensAt.Offset() {
		return Resolution{Reason: fmt.Sprintf("opens-at-%s", window.OpensAt)}
	}
	if sinceMidnight(end) > window.ClosesAt.Offset() {
		return Resolution{Reason: fmt.Sprintf("closes-at-%s", window.ClosesAt)}
	}

	return Resolution{Open: true}
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}
