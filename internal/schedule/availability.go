package schedule

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// saturdayCutoffHour is the first start hour closed on Saturdays.
const saturdayCutoffHour = 12

// ErrInvalidDate is returned when a date string cannot be parsed.
var ErrInvalidDate = errors.New("schedule: invalid date")

// Availability is the bookable subset of the grid for one date.
type Availability struct {
	Date      time.Time `json:"-"`
	Slots     []Slot    `json:"slots"`
	Exhausted bool      `json:"exhausted"`
	IsToday   bool      `json:"is_today"`
}

// Available returns the ordered sub-list of grid still bookable on date,
// given the current time now.
//
// Saturdays lose every slot starting at 12:00 or later. On the current day a
// slot survives only if its start is strictly after now.
func Available(grid []Slot, date, now time.Time) []Slot {
	out := make([]Slot, 0, len(grid))
	saturday := date.Weekday() == time.Saturday
	today := SameDay(date, now)
	current := Clock{Hour: now.Hour(), Minute: now.Minute()}

	for _, slot := range grid {
		if saturday && slot.Start.Hour >= saturdayCutoffHour {
			continue
		}
		if today && !slot.Start.After(current) {
			continue
		}
		out = append(out, slot)
	}
	return out
}

// Compute wraps Available with the flags callers need to render an explicit
// "no slots left" state instead of an empty picker.
func Compute(grid []Slot, date, now time.Time) Availability {
	slots := Available(grid, date, now)
	return Availability{
		Date:      DateOf(date),
		Slots:     slots,
		Exhausted: len(slots) == 0,
		IsToday:   SameDay(date, now),
	}
}

// BookableDates returns the next n calendar dates starting with today,
// skipping Sundays. Dates are midnight in now's location.
func BookableDates(now time.Time, n int) []time.Time {
	dates := make([]time.Time, 0, n)
	day := DateOf(now)
	for len(dates) < n {
		if day.Weekday() != time.Sunday {
			dates = append(dates, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return dates
}

// IsBookableDate reports whether date falls inside the n-day window from now.
func IsBookableDate(date, now time.Time, n int) bool {
	for _, d := range BookableDates(now, n) {
		if SameDay(d, date) {
			return true
		}
	}
	return false
}

// SameDay compares the calendar dates of a and b as each is expressed.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return t, nil
}

// Location returns the *time.Location for an office timezone name,
// falling back to UTC when it is empty or unknown.
func Location(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ClockIn returns a clock function reporting the current time in loc.
func ClockIn(loc *time.Location) func() time.Time {
	return func() time.Time { return time.Now().In(loc) }
}
