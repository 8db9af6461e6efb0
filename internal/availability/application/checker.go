package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/curbspot/curbspot/internal/availability/domain"
	"github.com/curbspot/curbspot/internal/shared/infrastructure/eventbus"
	"github.com/curbspot/curbspot/pkg/observability"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// Metric names recorded by the checker and coordinator.
const (
	MetricCacheHits        = "availability.cache.hits"
	MetricCacheMisses      = "availability.cache.misses"
	MetricProviderFailures = "availability.provider.failures"
	MetricVerdicts         = "availability.verdicts"
)

// CheckerConfig configures the per-resource checker.
type CheckerConfig struct {
	// CacheTTL bounds how long Available/Unavailable verdicts are served
	// from cache. Unknown verdicts are never cached.
	CacheTTL time.Duration

	// CircuitBreakerEnabled wraps provider calls in per-provider breakers.
	CircuitBreakerEnabled bool

	// MaxRequests is the number of probes allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold trips the breaker after this many consecutive
	// provider failures.
	FailureThreshold uint32
}

// DefaultCheckerConfig returns the recommended settings.
func DefaultCheckerConfig() CheckerConfig {
	return CheckerConfig{
		CacheTTL:              5 * time.Minute,
		CircuitBreakerEnabled: true,
		MaxRequests:           3,
		Interval:              10 * time.Second,
		Timeout:               30 * time.Second,
		FailureThreshold:      5,
	}
}

// AvailabilityChecker decides whether one resource is bookable for one
// interval: cache, then schedule, then reservations. Provider failures
// degrade to an Unknown verdict and are never cached, so a caller retry
// re-executes the full check.
type AvailabilityChecker struct {
	schedules    domain.ScheduleProvider
	reservations domain.ReservationProvider
	cache        ResultCache
	publisher    eventbus.Publisher
	metrics      observability.Metrics
	logger       *slog.Logger
	config       CheckerConfig
	nowFn        func() time.Time

	scheduleBreaker    *gobreaker.CircuitBreaker[*domain.WeeklySchedule]
	reservationBreaker *gobreaker.CircuitBreaker[[]domain.Reservation]
}

// NewAvailabilityChecker wires a checker. cache may be nil to disable
// caching entirely (every check hits the providers).
func NewAvailabilityChecker(
	schedules domain.ScheduleProvider,
	reservations domain.ReservationProvider,
	cache ResultCache,
	config CheckerConfig,
	logger *slog.Logger,
) *AvailabilityChecker {
	if logger == nil {
		logger = slog.Default()
	}
	c := &AvailabilityChecker{
		schedules:    schedules,
		reservations: reservations,
		cache:        cache,
		metrics:      observability.NoopMetrics{},
		logger:       logger,
		config:       config,
		nowFn:        time.Now,
	}
	if config.CircuitBreakerEnabled {
		c.scheduleBreaker = gobreaker.NewCircuitBreaker[*domain.WeeklySchedule](c.breakerSettings("schedule-provider"))
		c.reservationBreaker = gobreaker.NewCircuitBreaker[[]domain.Reservation](c.breakerSettings("reservation-provider"))
	}
	return c
}

// WithMetrics attaches a metrics collector.
func (c *AvailabilityChecker) WithMetrics(metrics observability.Metrics) *AvailabilityChecker {
	if metrics != nil {
		c.metrics = metrics
	}
	return c
}

// WithPublisher attaches an event publisher for availability.checked
// events. Nil disables publishing.
func (c *AvailabilityChecker) WithPublisher(publisher eventbus.Publisher) *AvailabilityChecker {
	c.publisher = publisher
	return c
}

// WithClock overrides the checker's clock for tests.
func (c *AvailabilityChecker) WithClock(nowFn func() time.Time) *AvailabilityChecker {
	c.nowFn = nowFn
	return c
}

func (c *AvailabilityChecker) breakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: c.config.MaxRequests,
		Interval:    c.config.Interval,
		Timeout:     c.config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Info("circuit breaker state changed",
				"provider", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
}

// Check runs the availability decision for one resource. It never returns
// an error: every failure mode degrades to an Unknown result.
func (c *AvailabilityChecker) Check(ctx context.Context, resourceID uuid.UUID, interval domain.Interval) domain.AvailabilityResult {
	key := CacheKey(resourceID, interval)

	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, key); ok {
			c.metrics.Counter(MetricCacheHits, 1)
			return cached
		}
		c.metrics.Counter(MetricCacheMisses, 1)
	}

	schedule, err := c.fetchSchedule(ctx, resourceID)
	if err != nil {
		return c.unknown(ctx, resourceID, interval, "schedule fetch failed", err)
	}

	resolution := domain.Resolve(*schedule, interval)
	if !resolution.Open {
		// Closed by schedule: no reservation fetch needed.
		return c.finish(ctx, key, interval, domain.Unavailable(resourceID, resolution.Reason, nil, c.nowFn()))
	}

	existing, err := c.fetchReservations(ctx, resourceID, interval)
	if err != nil {
		return c.unknown(ctx, resourceID, interval, "reservation fetch failed", err)
	}

	check := domain.FindConflict(interval, existing)
	result := domain.Available(resourceID, c.nowFn())
	if check.Conflict {
		result = domain.Unavailable(resourceID, domain.ReasonReserved, check.With, c.nowFn())
	}
	return c.finish(ctx, key, interval, result)
}

// Invalidate drops the cached verdict for one resource and interval so the
// next check re-executes.
func (c *AvailabilityChecker) Invalidate(ctx context.Context, resourceID uuid.UUID, interval domain.Interval) {
	if c.cache != nil {
		c.cache.Delete(ctx, CacheKey(resourceID, interval))
	}
}

func (c *AvailabilityChecker) fetchSchedule(ctx context.Context, resourceID uuid.UUID) (*domain.WeeklySchedule, error) {
	if c.scheduleBreaker == nil {
		return c.schedules.GetSchedule(ctx, resourceID)
	}
	return c.scheduleBreaker.Execute(func() (*domain.WeeklySchedule, error) {
		return c.schedules.GetSchedule(ctx, resourceID)
	})
}

func (c *AvailabilityChecker) fetchReservations(ctx context.Context, resourceID uuid.UUID, interval domain.Interval) ([]domain.Reservation, error) {
	if c.reservationBreaker == nil {
		return c.reservations.ListBlocking(ctx, resourceID, interval)
	}
	return c.reservationBreaker.Execute(func() ([]domain.Reservation, error) {
		return c.reservations.ListBlocking(ctx, resourceID, interval)
	})
}

// finish caches a definite verdict, publishes its event, and records it.
func (c *AvailabilityChecker) finish(ctx context.Context, key string, interval domain.Interval, result domain.AvailabilityResult) domain.AvailabilityResult {
	if c.cache != nil {
		c.cache.Set(ctx, key, result, c.config.CacheTTL)
	}
	c.record(ctx, interval, result)
	return result
}

// unknown builds the degraded verdict for a failed check. Never cached.
func (c *AvailabilityChecker) unknown(ctx context.Context, resourceID uuid.UUID, interval domain.Interval, msg string, err error) domain.AvailabilityResult {
	c.metrics.Counter(MetricProviderFailures, 1)
	c.logger.Warn(msg,
		"resource_id", resourceID,
		"error", err,
	)
	result := domain.Unknown(resourceID, reasonForError(err), c.nowFn())
	c.record(ctx, interval, result)
	return result
}

func (c *AvailabilityChecker) record(ctx context.Context, interval domain.Interval, result domain.AvailabilityResult) {
	c.metrics.Counter(MetricVerdicts, 1, observability.T("verdict", string(result.Verdict)))
	if c.publisher != nil {
		event := domain.NewAvailabilityCheckedEvent(result, interval)
		if err := eventbus.PublishDomainEvent(ctx, c.publisher, event); err != nil {
			c.logger.Warn("failed to publish availability event",
				"resource_id", result.ResourceID,
				"error", err,
			)
		}
	}
}

// reasonForError maps a provider failure onto a machine-readable reason.
func reasonForError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.ReasonTimeout
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return domain.ReasonCircuitOpen
	default:
		return domain.ReasonProviderFailure
	}
}
