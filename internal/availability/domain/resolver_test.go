package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// monday is 2026-09-07, a Monday.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2026, time.September, 7, hour, minute, 0, 0, time.UTC)
}

func mondaySchedule(opens, closes string) WeeklySchedule {
	var s WeeklySchedule
	s.Days[time.Monday] = DayWindow{Open: true, OpensAt: MustClock(opens), ClosesAt: MustClock(closes)}
	return s
}

func TestResolve(t *testing.T) {
	schedule := mondaySchedule("09:00", "17:00")

	t.Run("inside window is open", func(t *testing.T) {
		res := Resolve(schedule, MustInterval(mondayAt(10, 0), mondayAt(12, 0)))
		assert.True(t, res.Open)
		assert.Empty(t, res.Reason)
	})

	t.Run("exact boundaries are open", func(t *testing.T) {
		res := Resolve(schedule, MustInterval(mondayAt(9, 0), mondayAt(17, 0)))
		assert.True(t, res.Open)
	})

	t.Run("before opening is closed with opens-at reason", func(t *testing.T) {
		res := Resolve(schedule, MustInterval(mondayAt(8, 0), mondayAt(10, 0)))
		assert.False(t, res.Open)
		assert.Equal(t, "opens-at-09:00", res.Reason)
	})

	t.Run("past closing is closed with closes-at reason", func(t *testing.T) {
		res := Resolve(schedule, MustInterval(mondayAt(16, 0), mondayAt(18, 0)))
		assert.False(t, res.Open)
		assert.Equal(t, "closes-at-17:00", res.Reason)
	})

	t.Run("closed day reports closed-all-day", func(t *testing.T) {
		res := Resolve(schedule, MustInterval(mondayAt(10, 0).AddDate(0, 0, 1), mondayAt(12, 0).AddDate(0, 0, 1)))
		assert.False(t, res.Open)
		assert.Equal(t, ReasonClosedAllDay, res.Reason)
	})

	t.Run("crossing midnight is always closed", func(t *testing.T) {
		allDay := WeeklySchedule{}
		for day := range allDay.Days {
			allDay.Days[day] = DayWindow{Open: true, OpensAt: MustClock("00:00"), ClosesAt: MustClock("23:59")}
		}
		res := Resolve(allDay, MustInterval(mondayAt(23, 0), mondayAt(1, 0).AddDate(0, 0, 1)))
		assert.False(t, res.Open)
		assert.Equal(t, ReasonCrossesDayBoundary, res.Reason)
	})

	t.Run("endpoints compared in the schedule timezone", func(t *testing.T) {
		local := mondaySchedule("09:00", "17:00")
		local.Timezone = "America/New_York"
		// 14:00-16:00 UTC is 10:00-12:00 in New York on 2026-09-07 (EDT).
		res := Resolve(local, MustInterval(mondayAt(14, 0), mondayAt(16, 0)))
		assert.True(t, res.Open)

		// 12:00-14:00 UTC is 08:00-10:00 local, before opening.
		res = Resolve(local, MustInterval(mondayAt(12, 0), mondayAt(14, 0)))
		assert.False(t, res.Open)
		assert.Equal(t, "opens-at-09:00", res.Reason)
	})
}

func TestResolveProperties(t *testing.T) {
	schedule := mondaySchedule("09:00", "17:00")
	window := schedule.Days[time.Monday]

	// Within one open day, open iff opensAt <= start and end <= closesAt.
	for startHour := 7; startHour <= 18; startHour++ {
		for endHour := startHour + 1; endHour <= 19; endHour++ {
			iv := MustInterval(mondayAt(startHour, 0), mondayAt(endHour, 0))
			want := startHour >= window.OpensAt.Hour && endHour <= window.ClosesAt.Hour
			got := Resolve(schedule, iv)
			assert.Equal(t, want, got.Open,
				fmt.Sprintf("%02d:00-%02d:00 expected open=%v got reason=%q", startHour, endHour, want, got.Reason))
		}
	}
}
