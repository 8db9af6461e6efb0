package domain

import (
	"time"

	sharedDomain "github.com/curbspot/curbspot/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	// AggregateTypeResource identifies parking-space aggregates in events.
	AggregateTypeResource = "resource"

	// RoutingKeyAvailabilityChecked is emitted after every completed check.
	RoutingKeyAvailabilityChecked = "availability.checked"
	// RoutingKeyBatchCompleted is emitted once a batch check finishes.
	RoutingKeyBatchCompleted = "availability.batch_completed"
)

// AvailabilityCheckedEvent records the verdict of a single check.
type AvailabilityCheckedEvent struct {
	sharedDomain.BaseEvent

	ResourceID uuid.UUID `json:"resource_id"`
	Interval   Interval  `json:"interval"`
	Verdict    Verdict   `json:"verdict"`
	Reason     string    `json:"reason,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

// NewAvailabilityCheckedEvent creates an event for a finished check.
func NewAvailabilityCheckedEvent(result AvailabilityResult, interval Interval) *AvailabilityCheckedEvent {
	return &AvailabilityCheckedEvent{
		BaseEvent:  sharedDomain.NewBaseEvent(result.ResourceID, AggregateTypeResource, RoutingKeyAvailabilityChecked),
		ResourceID: result.ResourceID,
		Interval:   interval,
		Verdict:    result.Verdict,
		Reason:     result.Reason,
		CheckedAt:  result.CheckedAt,
	}
}

// BatchCompletedEvent records the aggregate outcome of a batch check.
type BatchCompletedEvent struct {
	sharedDomain.BaseEvent

	BatchID   uuid.UUID `json:"batch_id"`
	Interval  Interval  `json:"interval"`
	Requested int       `json:"requested"`
	Summary   Summary   `json:"summary"`
	Elapsed   int64     `json:"elapsed_ms"`
}

// NewBatchCompletedEvent creates an event for a finished batch.
func NewBatchCompletedEvent(batchID uuid.UUID, interval Interval, requested int, summary Summary, elapsed time.Duration) *BatchCompletedEvent {
	return &BatchCompletedEvent{
		BaseEvent: sharedDomain.NewBaseEvent(batchID, AggregateTypeResource, RoutingKeyBatchCompleted),
		BatchID:   batchID,
		Interval:  interval,
		Requested: requested,
		Summary:   summary,
		Elapsed:   elapsed.Milliseconds(),
	}
}
