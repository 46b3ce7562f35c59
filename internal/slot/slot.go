package slot

import (
	"fmt"
	"strings"
)

// Separator splits the two endpoints of a slot string.
const Separator = " - "

// Slot is a same-day time range. End is exclusive by convention.
type Slot struct {
	Start TimeOfDay
	End   TimeOfDay
}

// New returns a slot with the given endpoints.
func New(start, end TimeOfDay) Slot {
	return Slot{Start: start, End: end}
}

// ParseSlot parses "<time> - <time>" into a Slot.
// The ordering of the endpoints is not checked; see IsOrdered.
func ParseSlot(text string) (Slot, error) {
	from, to, ok := strings.Cut(text, Separator)
	if !ok {
		return Slot{}, fmt.Errorf("%w: %q", ErrMalformedSlot, text)
	}

	start, err := ParseTime(strings.TrimSpace(from))
	if err != nil {
		return Slot{}, fmt.Errorf("start time: %w", err)
	}
	end, err := ParseTime(strings.TrimSpace(to))
	if err != nil {
		return Slot{}, fmt.Errorf("end time: %w", err)
	}

	return Slot{Start: start, End: end}, nil
}

// MustParse is like ParseSlot but panics on malformed input.
func MustParse(text string) Slot {
	s, err := ParseSlot(text)
	if err != nil {
		panic(err)
	}
	return s
}

// IsOrdered reports whether the slot starts no later than it ends.
// Zero-length slots are ordered.
func (s Slot) IsOrdered() bool {
	return s.Start <= s.End
}

// IsZeroLength reports whether both endpoints are the same minute.
func (s Slot) IsZeroLength() bool {
	return s.Start == s.End
}

// Duration returns the slot length in minutes, or 0 when unordered.
func (s Slot) Duration() int {
	if !s.IsOrdered() {
		return 0
	}
	return int(s.End - s.Start)
}

// Equal reports whether both endpoints match exactly.
func (s Slot) Equal(other Slot) bool {
	return s.Start == other.Start && s.End == other.End
}

// Overlaps reports whether either slot has an endpoint strictly inside the other.
// Slots that only touch at a boundary do not overlap, and identical slots are
// left to Equal.
func (s Slot) Overlaps(other Slot) bool {
	return s.hasInterior(other.Start) || s.hasInterior(other.End) ||
		other.hasInterior(s.Start) || other.hasInterior(s.End)
}

// hasInterior reports whether t lies strictly between the endpoints.
func (s Slot) hasInterior(t TimeOfDay) bool {
	return s.Start < t && t < s.End
}

// String formats the slot as "H:MM AM - H:MM PM".
func (s Slot) String() string {
	return s.Start.String() + Separator + s.End.String()
}

// MarshalText encodes the slot in its canonical string form.
func (s Slot) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a slot string.
func (s *Slot) UnmarshalText(text []byte) error {
	parsed, err := ParseSlot(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
