package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidClock   = errors.New("clock time must be HH:MM within 00:00-23:59")
	ErrWindowInverted = errors.New("open window must close after it opens")
)

// ClockTime is a local wall-clock time of day, minute resolution.
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// NewClockTime creates a clock time, validating its range.
func NewClockTime(hour, minute int) (ClockTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}, ErrInvalidClock
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

// ParseClock parses "HH:MM" (24-hour).
func ParseClock(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return ClockTime{}, fmt.Errorf("parse clock %q: %w", s, ErrInvalidClock)
	}
	return NewClockTime(h, m)
}

// MustClock is a test and wiring helper that panics on a malformed time.
func MustClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Offset returns the duration since local midnight.
func (c ClockTime) Offset() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// DayWindow is the open-hours window for one weekday. When Open is false
// the opening times are ignored.
type DayWindow struct {
	Open     bool      `json:"open"`
	OpensAt  ClockTime `json:"opens_at"`
	ClosesAt ClockTime `json:"closes_at"`
}

// WeeklySchedule maps each weekday to its open-hours window, evaluated in
// the resource's local time zone. Windows never wrap past midnight; an
// overnight lot needs two adjacent day windows, and intervals spanning the
// boundary are rejected by Resolve. The engine only reads schedules; they
// are owned and mutated by the listing side.
type WeeklySchedule struct {
	Days     [7]DayWindow `json:"days"` // indexed by time.Weekday (Sunday = 0)
	Timezone string       `json:"timezone"`
}

// Window returns the window for the given weekday.
func (s WeeklySchedule) Window(day time.Weekday) DayWindow {
	return s.Days[int(day)]
}

// Location resolves the schedule's time zone, falling back to UTC when
// unset or unknown.
func (s WeeklySchedule) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate checks the open-before-close invariant on every open day.
func (s WeeklySchedule) Validate() error {
	for day, w := range s.Days {
		if !w.Open {
			continue
		}
		if w.OpensAt.Offset() >= w.ClosesAt.Offset() {
			return fmt.Errorf("%s: %w", time.Weekday(day), ErrWindowInverted)
		}
	}
	return nil
}
