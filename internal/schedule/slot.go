package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSlot is returned when a slot label cannot be parsed.
var ErrInvalidSlot = errors.New("schedule: invalid slot")

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// Minutes returns the number of minutes since midnight.
func (c Clock) Minutes() int { return c.Hour*60 + c.Minute }

// String renders the clock as HH:MM.
func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// Compact renders the clock as HHMM, the form used inside booking codes.
func (c Clock) Compact() string { return fmt.Sprintf("%02d%02d", c.Hour, c.Minute) }

// After reports whether c is strictly later than o, comparing hour then minute.
func (c Clock) After(o Clock) bool {
	if c.Hour != o.Hour {
		return c.Hour > o.Hour
	}
	return c.Minute > o.Minute
}

func parseClock(s string) (Clock, error) {
	var c Clock
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &c.Hour, &c.Minute); err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return Clock{}, fmt.Errorf("%w: %q out of range", ErrInvalidSlot, s)
	}
	return c, nil
}

// Slot is one fixed interval of the daily service calendar.
type Slot struct {
	Start Clock
	End   Clock
}

// NewSlot builds a slot from hour/minute pairs.
func NewSlot(startHour, startMinute, endHour, endMinute int) Slot {
	return Slot{Start: Clock{startHour, startMinute}, End: Clock{endHour, endMinute}}
}

// ParseSlot parses the "HH:MM - HH:MM" form shown to citizens.
func ParseSlot(label string) (Slot, error) {
	start, end, ok := strings.Cut(label, "-")
	if !ok {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, label)
	}
	s, err := parseClock(start)
	if err != nil {
		return Slot{}, err
	}
	e, err := parseClock(end)
	if err != nil {
		return Slot{}, err
	}
	if !e.After(s) {
		return Slot{}, fmt.Errorf("%w: %q ends before it starts", ErrInvalidSlot, label)
	}
	return Slot{Start: s, End: e}, nil
}

// String renders the slot as "HH:MM - HH:MM".
func (s Slot) String() string {
	return s.Start.String() + " - " + s.End.String()
}

// IsZero reports whether the slot is unset.
func (s Slot) IsZero() bool { return s == Slot{} }

func (s Slot) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Slot) UnmarshalText(text []byte) error {
	parsed, err := ParseSlot(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// DefaultGrid is the ward office's daily half-hour grid: a morning block
// 07:30–11:30 and an afternoon block 13:30–17:00.
var DefaultGrid = []Slot{
	NewSlot(7, 30, 8, 0), NewSlot(8, 0, 8, 30), NewSlot(8, 30, 9, 0), NewSlot(9, 0, 9, 30),
	NewSlot(9, 30, 10, 0), NewSlot(10, 0, 10, 30), NewSlot(10, 30, 11, 0), NewSlot(11, 0, 11, 30),
	NewSlot(13, 30, 14, 0), NewSlot(14, 0, 14, 30), NewSlot(14, 30, 15, 0), NewSlot(15, 0, 15, 30),
	NewSlot(15, 30, 16, 0), NewSlot(16, 0, 16, 30), NewSlot(16, 30, 17, 0),
}

// Contains reports whether slot is present in slots.
func Contains(slots []Slot, slot Slot) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
