package domain

import (
	"time"

	"github.com/google/uuid"
)

// Verdict classifies the outcome of an availability check.
type Verdict string

const (
	VerdictAvailable   Verdict = "available"
	VerdictUnavailable Verdict = "unavailable"
	// VerdictUnknown means the check itself failed, not that the resource
	// is booked. Unknown results are never cached.
	VerdictUnknown Verdict = "unknown"
)

// Reasons attached to Unavailable and Unknown verdicts, beyond the
// schedule reasons produced by Resolve.
const (
	ReasonReserved        = "reserved"
	ReasonTimeout         = "timeout"
	ReasonCircuitOpen     = "circuit-open"
	ReasonProviderFailure = "provider-failure"
)

// AvailabilityResult is the verdict for one resource and one requested
// interval. Results are immutable; a re-check replaces the value wholesale.
type AvailabilityResult struct {
	ResourceID uuid.UUID    `json:"resource_id"`
	Verdict    Verdict      `json:"verdict"`
	Reason     string       `json:"reason,omitempty"`
	Conflict   *Reservation `json:"conflict,omitempty"`
	CheckedAt  time.Time    `json:"checked_at"`
}

// Available builds an open verdict.
func Available(resourceID uuid.UUID, at time.Time) AvailabilityResult {
	return AvailabilityResult{ResourceID: resourceID, Verdict: VerdictAvailable, CheckedAt: at}
}

// Unavailable builds a booked-or-closed verdict. conflict is nil for
// schedule-closed reasons.
func Unavailable(resourceID uuid.UUID, reason string, conflict *Reservation, at time.Time) AvailabilityResult {
	return AvailabilityResult{
		ResourceID: resourceID,
		Verdict:    VerdictUnavailable,
		Reason:     reason,
		Conflict:   conflict,
		CheckedAt:  at,
	}
}

// Unknown builds a check-failed verdict.
func Unknown(resourceID uuid.UUID, reason string, at time.Time) AvailabilityResult {
	return AvailabilityResult{ResourceID: resourceID, Verdict: VerdictUnknown, Reason: reason, CheckedAt: at}
}

// Summary holds the per-verdict counters a host UI renders next to a
// batch result. Unknown entries never count toward either side.
type Summary struct {
	Available   int `json:"available"`
	Unavailable int `json:"unavailable"`
	Unknown     int `json:"unknown"`
}

// Summarize derives counters from a batch result map.
func Summarize(results map[uuid.UUID]AvailabilityResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Verdict {
		case VerdictAvailable:
			s.Available++
		case VerdictUnavailable:
			s.Unavailable++
		default:
			s.Unknown++
		}
	}
	return s
}
