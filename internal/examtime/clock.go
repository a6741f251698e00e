package examtime

import "fmt"

// Clock is a wall-clock time of day at one-minute resolution, stored as
// minutes elapsed since 00:00. The engine never schedules across
// midnight, so a Clock is only ever compared against another Clock from
// the same calendar day.
type Clock int

// MidnightMinutes is the valid range bound for a Clock value.
const MidnightMinutes = 24 * 60

// NewClock builds a Clock from hour and minute components.
func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("examtime: invalid time %02d:%02d", hour, minute)
	}
	return Clock(hour*60 + minute), nil
}

// MustClock is like NewClock but panics on error; reserved for literal,
// known-valid clock values declared at package scope.
func MustClock(hour, minute int) Clock {
	c, err := NewClock(hour, minute)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseClock parses an "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("examtime: parse time %q: %w", s, err)
	}
	return NewClock(hour, minute)
}

// Hour returns the hour component (0-23).
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute component (0-59).
func (c Clock) Minute() int { return int(c) % 60 }

// String renders the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// AddMinutes returns the clock shifted forward by minutes (may be
// negative). The result is not clamped to a single day: callers that need
// to reject day-crossing results must check the returned value against
// MidnightMinutes themselves (the engine rejects such candidates at the
// working-hours boundary, never here).
func (c Clock) AddMinutes(minutes int) Clock {
	return c + Clock(minutes)
}

// Before reports whether c is strictly earlier than other.
func (c Clock) Before(other Clock) bool { return c < other }

// Duration is a positive count of minutes, e.g. an exam's length.
type Duration int

// Minutes returns the duration expressed in minutes.
func (d Duration) Minutes() int { return int(d) }

// Overlaps reports whether the half-open ranges [aStart,aEnd) and
// [bStart,bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd Clock) bool {
	return aStart < bEnd && bStart < aEnd
}

// GapMinutes returns the number of minutes between aEnd and bStart,
// assuming a precedes b chronologically. It never returns a negative
// number: overlapping ranges have a gap of 0.
func GapMinutes(aEnd, bStart Clock) int {
	gap := int(bStart) - int(aEnd)
	if gap < 0 {
		return 0
	}
	return gap
}
