package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/curbspot/curbspot/internal/availability/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockScheduleProvider struct {
	mock.Mock
}

func (m *mockScheduleProvider) GetSchedule(ctx context.Context, resourceID uuid.UUID) (*domain.WeeklySchedule, error) {
	args := m.Called(ctx, resourceID)
	if schedule := args.Get(0); schedule != nil {
		return schedule.(*domain.WeeklySchedule), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockReservationProvider struct {
	mock.Mock
}

func (m *mockReservationProvider) ListBlocking(ctx context.Context, resourceID uuid.UUID, around domain.Interval) ([]domain.Reservation, error) {
	args := m.Called(ctx, resourceID, around)
	if reservations := args.Get(0); reservations != nil {
		return reservations.([]domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

// mondayNineToFive opens Monday 09:00-17:00 UTC only.
func mondayNineToFive() *domain.WeeklySchedule {
	var s domain.WeeklySchedule
	s.Days[time.Monday] = domain.DayWindow{
		Open:     true,
		OpensAt:  domain.MustClock("09:00"),
		ClosesAt: domain.MustClock("17:00"),
	}
	return &s
}

// monday 2026-09-07
func mondayWindow(fromHour, toHour int) domain.Interval {
	return domain.MustInterval(
		time.Date(2026, time.September, 7, fromHour, 0, 0, 0, time.UTC),
		time.Date(2026, time.September, 7, toHour, 0, 0, 0, time.UTC),
	)
}

func newTestChecker(schedules domain.ScheduleProvider, reservations domain.ReservationProvider) *AvailabilityChecker {
	cfg := DefaultCheckerConfig()
	cfg.CircuitBreakerEnabled = false
	return NewAvailabilityChecker(schedules, reservations, NewInMemoryResultCache(), cfg, nil)
}

func TestCheckVerdicts(t *testing.T) {
	ctx := context.Background()
	resourceID := uuid.New()

	t.Run("open and unreserved is available", func(t *testing.T) {
		schedules := new(mockScheduleProvider)
		reservations := new(mockReservationProvider)
		schedules.On("GetSchedule", ctx, resourceID).Return(mondayNineToFive(), nil)
		reservations.On("ListBlocking", ctx, resourceID, mondayWindow(10, 12)).Return([]domain.Reservation{}, nil)

		result := newTestChecker(schedules, reservations).Check(ctx, resourceID, mondayWindow(10, 12))

		assert.Equal(t, domain.VerdictAvailable, result.Verdict)
		assert.Equal(t, resourceID, result.ResourceID)
	})

	t.Run("before opening is unavailable with opens-at reason", func(t *testing.T) {
		schedules := new(mockScheduleProvider)
		reservations := new(mockReservationProvider)
		schedules.On("GetSchedule", ctx, resourceID).Return(mondayNineToFive(), nil)

		result := newTestChecker(schedules, reservations).Check(ctx, resourceID, mondayWindow(8, 10))

		assert.Equal(t, domain.VerdictUnavailable, result.Verdict)
		assert.Equal(t, "opens-at-09:00", result.Reason)
		reservations.AssertNotCalled(t, "ListBlocking", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("overlapping reservation is unavailable with conflict", func(t *testing.T) {
		schedules := new(mockScheduleProvider)
		reservations := new(mockReservationProvider)
		existing := domain.Reservation{
			ID:         uuid.New(),
			ResourceID: resourceID,
			RenterID:   uuid.New(),
			Interval:   mondayWindow(11, 13),
			Status:     domain.StatusConfirmed,
		}
		schedules.On("GetSchedule", ctx, resourceID).Return(mondayNineToFive(), nil)
		reservations.On("ListBlocking", ctx, resourceID, mondayWindow(10, 12)).Return([]domain.Reservation{existing}, nil)

		result := newTestChecker(schedules, reservations).Check(ctx, resourceID, mondayWindow(10, 12))

		assert.Equal(t, domain.VerdictUnavailable, result.Verdict)
		assert.Equal(t, domain.ReasonReserved, result.Reason)
		require.NotNil(t, result.Conflict)
		assert.Equal(t, existing.ID, result.Conflict.ID)
	})

	t.Run("back-to-back reservation stays available", func(t *testing.T) {
		schedules := new(mockScheduleProvider)
		reservations := new(mockReservationProvider)
		existing := domain.Reservation{
			ID:       uuid.New(),
			Interval: mondayWindow(12, 14),
			Status:   domain.StatusConfirmed,
		}
		schedules.On("GetSchedule", ctx, resourceID).Return(mondayNineToFive(), nil)
		reservations.On("ListBlocking", ctx, resourceID, mondayWindow(10, 12)).Return([]domain.Reservation{existing}, nil)

		result := newTestChecker(schedules, reservations).Check(ctx, resourceID, mondayWindow(10, 12))

		assert.Equal(t, domain.VerdictAvailable, result.Verdict)
	})
}

func TestCheckCaching(t *testing.T) {
	ctx := context.Background()
	resourceID := uuid.New()

	t.Run("second check within TTL hits cache", func(t *testing.T) {
		schedules := new(mockScheduleProvider)
		reservations := new(mockReservationProvider)
		schedules.On("GetSchedule", ctx, resourceID).Return(mondayNineToFive(), nil)
		reservations.On("ListBlocking", ctx, resourceID, mondayWindow(10, 12)).Return([]domain.Reservation{}, nil)

		checker := newTestChecker(schedules, reservations)
		first := checker.Check(ctx, resourceID, mondayWindow(10, 12))
		second := checker.Check(ctx, resourceID, mondayWindow(10, 12))

		assert.Equal(t, first, second, "cached result is returned verbatim")
		schedules.AssertNumberOfCalls(t, "GetSchedule", 1)
		reservations.AssertNumberOfCalls(t, "ListBlocking", 1)
	})

	t.Run("different interval misses cache", func(t *testing.T) {
		schedules := new(mockScheduleProvider)
		reservations := new(mockReservationProvider)
		schedules.On("GetSchedule", ctx, resourceID).Return(mondayNineToFive(), nil)
		reservations.On("ListBlocking", ctx, resourceID, mock.Anything).Return([]domain.Reservation{}, nil)

		checker := newTestChecker(schedules, reservations)
		checker.Check(ctx, resourceID, mondayWindow(10, 12))
		checker.Check(ctx, resourceID, mondayWindow(13, 15))

		schedules.AssertNumberOfCalls(t, "GetSchedule", 2)
	})

	t.Run("invalidate forces re-check", func(t *testing.T) {
		schedules := new(mockScheduleProvider)
		reservations := new(mockReservationProvider)
		schedules.On("GetSchedule", ctx, resourceID).Return(mondayNineToFive(), nil)
		reservations.On("ListBlocking", ctx, resourceID, mock.Anything).Return([]domain.Reservation{}, nil)

		checker := newTestChecker(schedules, reservations)
		checker.Check(ctx, resourceID, mondayWindow(10, 12))
		checker.Invalidate(ctx, resourceID, mondayWindow(10, 12))
		checker.Check(ctx, resourceID, mondayWindow(10, 12))

		schedules.AssertNumberOfCalls(t, "GetSchedule", 2)
	})
}

func TestCheckFailures(t *testing.T) {
	ctx := context.Background()
	resourceID := uuid.New()

	t.Run("schedule provider failure is unknown and not cached", func(t *testing.T) {
		schedules := new(mockScheduleProvider)
		reservations := new(mockReservationProvider)
		schedules.On("GetSchedule", ctx, resourceID).Return(nil, errors.New("connection refused"))

		checker := newTestChecker(schedules, reservations)
		first := checker.Check(ctx, resourceID, mondayWindow(10, 12))
		second := checker.Check(ctx, resourceID, mondayWindow(10, 12))

		assert.Equal(t, domain.VerdictUnknown, first.Verdict)
		assert.Equal(t, domain.ReasonProviderFailure, first.Reason)
		assert.Equal(t, domain.VerdictUnknown, second.Verdict)
		schedules.AssertNumberOfCalls(t, "GetSchedule", 2)
	})

	t.Run("reservation provider timeout is unknown timeout", func(t *testing.T) {
		schedules := new(mockScheduleProvider)
		reservations := new(mockReservationProvider)
		schedules.On("GetSchedule", ctx, resourceID).Return(mondayNineToFive(), nil)
		reservations.On("ListBlocking", ctx, resourceID, mock.Anything).
			Return(nil, fmt.Errorf("list blocking: %w", context.DeadlineExceeded))

		result := newTestChecker(schedules, reservations).Check(ctx, resourceID, mondayWindow(10, 12))

		assert.Equal(t, domain.VerdictUnknown, result.Verdict)
		assert.Equal(t, domain.ReasonTimeout, result.Reason)
	})

	t.Run("tripped breaker reports circuit-open without calling provider", func(t *testing.T) {
		schedules := new(mockScheduleProvider)
		reservations := new(mockReservationProvider)
		schedules.On("GetSchedule", ctx, resourceID).Return(nil, errors.New("connection refused"))

		cfg := DefaultCheckerConfig()
		cfg.FailureThreshold = 2
		checker := NewAvailabilityChecker(schedules, reservations, NewInMemoryResultCache(), cfg, nil)

		checker.Check(ctx, resourceID, mondayWindow(10, 12))
		checker.Check(ctx, resourceID, mondayWindow(10, 12))
		result := checker.Check(ctx, resourceID, mondayWindow(10, 12))

		assert.Equal(t, domain.VerdictUnknown, result.Verdict)
		assert.Equal(t, domain.ReasonCircuitOpen, result.Reason)
		schedules.AssertNumberOfCalls(t, "GetSchedule", 2)
	})
}
