package application

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/curbspot/curbspot/internal/availability/domain"
	"github.com/curbspot/curbspot/internal/shared/infrastructure/eventbus"
	"github.com/curbspot/curbspot/pkg/observability"
	"github.com/google/uuid"
)

// Checker is the per-resource check the coordinator fans out over.
type Checker interface {
	Check(ctx context.Context, resourceID uuid.UUID, interval domain.Interval) domain.AvailabilityResult
}

// ProgressFunc receives advisory completion counts while a batch runs.
// Arrival order across resources is not deterministic; only the final map
// is authoritative.
type ProgressFunc func(done, total int)

// CoordinatorConfig configures the batch fan-out.
type CoordinatorConfig struct {
	// Concurrency caps in-flight per-resource checks so a large batch
	// cannot overwhelm the reservation store.
	Concurrency int

	// Timeout is the overall batch deadline. Checks still pending when it
	// expires are reported as Unknown("timeout"); checks completing after
	// it are discarded, not merged.
	Timeout time.Duration
}

// DefaultCoordinatorConfig returns the recommended settings.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		Concurrency: 20,
		Timeout:     8 * time.Second,
	}
}

// BatchAvailabilityCoordinator runs one check per resource concurrently
// and aggregates partial successes and failures. One resource's provider
// failure never fails or delays the batch for the others.
type BatchAvailabilityCoordinator struct {
	checker    Checker
	publisher  eventbus.Publisher
	metrics    observability.Metrics
	logger     *slog.Logger
	config     CoordinatorConfig
	onProgress ProgressFunc
	nowFn      func() time.Time
}

// NewBatchAvailabilityCoordinator wires a coordinator around a checker.
func NewBatchAvailabilityCoordinator(checker Checker, config CoordinatorConfig, logger *slog.Logger) *BatchAvailabilityCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultCoordinatorConfig().Concurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultCoordinatorConfig().Timeout
	}
	return &BatchAvailabilityCoordinator{
		checker: checker,
		metrics: observability.NoopMetrics{},
		logger:  logger,
		config:  config,
		nowFn:   time.Now,
	}
}

// WithMetrics attaches a metrics collector.
func (b *BatchAvailabilityCoordinator) WithMetrics(metrics observability.Metrics) *BatchAvailabilityCoordinator {
	if metrics != nil {
		b.metrics = metrics
	}
	return b
}

// WithPublisher attaches an event publisher for batch_completed events.
func (b *BatchAvailabilityCoordinator) WithPublisher(publisher eventbus.Publisher) *BatchAvailabilityCoordinator {
	b.publisher = publisher
	return b
}

// WithProgress registers an advisory progress hook, called after each
// completed check with (done, total). The hook must be fast and safe for
// concurrent invocation.
func (b *BatchAvailabilityCoordinator) WithProgress(fn ProgressFunc) *BatchAvailabilityCoordinator {
	b.onProgress = fn
	return b
}

// CheckAll checks every resource against the interval. The returned map
// holds exactly one entry per distinct requested resource, even when every
// provider call fails. Safe for concurrent invocation; the only shared
// state across batches is the checker's cache.
func (b *BatchAvailabilityCoordinator) CheckAll(ctx context.Context, resourceIDs []uuid.UUID, interval domain.Interval) map[uuid.UUID]domain.AvailabilityResult {
	timer := observability.StartTimer("batch_availability_check").WithMetrics(b.metrics)

	// Set semantics: duplicate IDs collapse to one check.
	distinct := make([]uuid.UUID, 0, len(resourceIDs))
	seen := make(map[uuid.UUID]struct{}, len(resourceIDs))
	for _, id := range resourceIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	total := len(distinct)
	results := make(map[uuid.UUID]domain.AvailabilityResult, total)
	if total == 0 {
		return results
	}

	ctx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	// Buffered to the batch size so a worker finishing after the deadline
	// never blocks; its result simply goes unread.
	resultCh := make(chan domain.AvailabilityResult, total)
	sem := make(chan struct{}, b.config.Concurrency)
	var done atomic.Int64
	var wg sync.WaitGroup

	for _, id := range distinct {
		wg.Add(1)
		go func(resourceID uuid.UUID) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				// Never started; the collector reports it as a timeout.
				return
			}
			resultCh <- b.checker.Check(ctx, resourceID, interval)
			d := done.Add(1)
			if b.onProgress != nil {
				b.onProgress(int(d), total)
			}
		}(id)
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	b.collect(ctx, resultCh, results)

	// Deadline fallback: every requested resource appears exactly once.
	for _, id := range distinct {
		if _, ok := results[id]; !ok {
			results[id] = domain.Unknown(id, domain.ReasonTimeout, b.nowFn())
		}
	}

	elapsed := timer.Stop()
	summary := domain.Summarize(results)
	b.logger.Info("batch availability check completed",
		"requested", total,
		"available", summary.Available,
		"unavailable", summary.Unavailable,
		"unknown", summary.Unknown,
		"duration_ms", elapsed.Milliseconds(),
	)

	if b.publisher != nil {
		event := domain.NewBatchCompletedEvent(uuid.New(), interval, total, summary, elapsed)
		if err := eventbus.PublishDomainEvent(ctx, b.publisher, event); err != nil {
			b.logger.Warn("failed to publish batch event", "error", err)
		}
	}

	return results
}

// collect merges results until the channel closes or the deadline passes.
// On deadline it drains only what is already buffered, i.e. checks that
// completed in time; anything later is discarded.
func (b *BatchAvailabilityCoordinator) collect(ctx context.Context, resultCh <-chan domain.AvailabilityResult, results map[uuid.UUID]domain.AvailabilityResult) {
	for {
		select {
		case result, ok := <-resultCh:
			if !ok {
				return
			}
			results[result.ResourceID] = result
		case <-ctx.Done():
			for {
				select {
				case result, ok := <-resultCh:
					if !ok {
						return
					}
					results[result.ResourceID] = result
				default:
					return
				}
			}
		}
	}
}

// CheckAllWithSummary is a convenience for hosts that render counters next
// to the map.
func (b *BatchAvailabilityCoordinator) CheckAllWithSummary(ctx context.Context, resourceIDs []uuid.UUID, interval domain.Interval) (map[uuid.UUID]domain.AvailabilityResult, domain.Summary) {
	results := b.CheckAll(ctx, resourceIDs, interval)
	return results, domain.Summarize(results)
}
