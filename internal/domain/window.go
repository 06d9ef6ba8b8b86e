package domain

import (
	"errors"
	"fmt"
	"time"
)

// PartOfDay names a forecastable stretch of the local day.
type PartOfDay string

const (
	Morning   PartOfDay = "morning"   // 06:00–12:00 local
	Afternoon PartOfDay = "afternoon" // 12:00–18:00 local
)

// AllParts lists every supported part of day.
var AllParts = []PartOfDay{Morning, Afternoon}

// ErrWindowElapsed reports that the requested window has already ended.
var ErrWindowElapsed = errors.New("window already elapsed")

// ParsePartOfDay validates a user-supplied part-of-day string.
func ParsePartOfDay(s string) (PartOfDay, error) {
	switch PartOfDay(s) {
	case Morning, Afternoon:
		return PartOfDay(s), nil
	default:
		return "", fmt.Errorf("unknown part of day %q", s)
	}
}

// Window is a half-open local-time interval to aggregate precipitation over.
type Window struct {
	Begin time.Time
	End   time.Time
}

// Resolve computes today's window for the part of day in loc. Returns
// ErrWindowElapsed once the current time has reached the window's end. A
// window already underway is clamped so Begin is never in the past.
func (p PartOfDay) Resolve(loc *time.Location) (Window, error) {
	var beginHour, endHour int
	switch p {
	case Morning:
		beginHour, endHour = 6, 12
	case Afternoon:
		beginHour, endHour = 12, 18
	default:
		return Window{}, fmt.Errorf("unknown part of day %q", p)
	}

	now := clock.Now().In(loc)
	begin := time.Date(now.Year(), now.Month(), now.Day(), beginHour, 0, 0, 0, loc)
	end := time.Date(now.Year(), now.Month(), now.Day(), endHour, 0, 0, 0, loc)

	if !now.Before(end) {
		return Window{}, fmt.Errorf("%s window ended at %s: %w", p, end.Format("15:04"), ErrWindowElapsed)
	}
	if now.After(begin) {
		begin = now
	}

	return Window{Begin: begin, End: end}, nil
}
