// Package slot models same-day time ranges written on a 12-hour clock.
package slot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse errors.
var (
	ErrMalformedTime = errors.New("time must be in H:MM AM|PM format")
	ErrMalformedSlot = errors.New("time slot must be in \"H:MM AM|PM - H:MM AM|PM\" format")
)

// MinutesPerDay is the number of minutes in a calendar day.
const MinutesPerDay = 24 * 60

const clockLayout = "3:04 PM"

// TimeOfDay is a number of minutes since local midnight, in [0, 1439].
type TimeOfDay int

// ParseTime converts "H:MM AM|PM" or "HH:MM AM|PM" to minutes since midnight.
// 12 AM is midnight (0) and 12 PM is noon (720).
// Anything else returns an error wrapping ErrMalformedTime.
func ParseTime(text string) (TimeOfDay, error) {
	hour, _, ok := strings.Cut(text, ":")
	if !ok || len(hour) == 0 || len(hour) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, text)
	}
	// time.Parse accepts hour 0 for the 12-hour layout; the clock face does not.
	if h, err := strconv.Atoi(hour); err != nil || h < 1 || h > 12 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, text)
	}

	t, err := time.Parse(clockLayout, text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, text)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// MustParseTime is like ParseTime but panics on malformed input.
// Intended for tests and literals.
func MustParseTime(text string) TimeOfDay {
	t, err := ParseTime(text)
	if err != nil {
		panic(err)
	}
	return t
}

// Hour returns the 24-hour clock hour.
func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

// Minute returns the minute within the hour.
func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

// Valid reports whether t falls within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

// String formats t as "H:MM AM|PM".
func (t TimeOfDay) String() string {
	m := int(t)
	if m < 0 {
		m = 0
	}
	if m >= MinutesPerDay {
		m = MinutesPerDay - 1
	}
	hour, period := m/60, "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		period = "PM"
	case hour > 12:
		hour -= 12
		period = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, m%60, period)
}
