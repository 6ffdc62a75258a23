package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Slot is a candidate placement: a half-open interval [Start, End).
type Slot struct {
	Start time.Time
	End   time.Time
}

// Window holds the clinic rules every placement must satisfy: which
// weekdays and hours are bookable, the slot grid, and the fixed
// appointment length. Hour rules are evaluated in Location.
type Window struct {
	StartHour   int
	EndHour     int
	Weekdays    map[time.Weekday]bool
	Granularity time.Duration
	Duration    time.Duration
	Location    *time.Location
}

// DefaultWindow is the standard clinic profile: Mon-Fri 9-17, hourly
// grid, 50-minute appointments.
func DefaultWindow(loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	return Window{
		StartHour: 9,
		EndHour:   17,
		Weekdays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		Granularity: time.Hour,
		Duration:    50 * time.Minute,
		Location:    loc,
	}
}

func (w Window) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("invalid business hours %d-%d", w.StartHour, w.EndHour)
	}
	if len(w.Weekdays) == 0 {
		return errors.New("no bookable weekdays configured")
	}
	if w.Granularity <= 0 {
		return errors.New("slot granularity must be positive")
	}
	if w.Duration <= 0 || w.Duration > w.Granularity {
		return fmt.Errorf("appointment duration %s must be positive and at most the granularity %s", w.Duration, w.Granularity)
	}
	if w.Location == nil {
		return errors.New("business timezone is required")
	}
	return nil
}

// SlotAt builds the slot starting at t with the window's fixed duration.
func (w Window) SlotAt(t time.Time) Slot {
	return Slot{Start: t, End: t.Add(w.Duration)}
}

// Aligned reports whether t sits on the slot grid, judged against
// midnight in the business timezone. With the standard hourly grid this
// means on the hour exactly.
func (w Window) Aligned(t time.Time) bool {
	local := t.In(w.Location)
	return local.Sub(midnight(local, w.Location))%w.Granularity == 0
}

// InBusinessWindow reports whether t's start falls on a configured
// weekday inside [StartHour, EndHour). Only the start matters: the
// appointment may run past closing, but may never begin at or after it.
func (w Window) InBusinessWindow(t time.Time) bool {
	local := t.In(w.Location)
	if !w.Weekdays[local.Weekday()] {
		return false
	}
	return local.Hour() >= w.StartHour && local.Hour() < w.EndHour
}

// roundUp moves t forward to the next grid boundary, leaving it alone if
// already aligned.
func (w Window) roundUp(t time.Time) time.Time {
	local := t.In(w.Location)
	rem := local.Sub(midnight(local, w.Location)) % w.Granularity
	if rem == 0 {
		return local
	}
	return local.Add(w.Granularity - rem)
}

func midnight(local time.Time, loc *time.Location) time.Time {
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
