package appointment

import (
	"fmt"

	"github.com/javiermolinar/turno/internal/slot"
)

// Policy selects how a candidate slot is compared with existing bookings.
//
// Both policies reject an exact duplicate of a doctor's or a patient's slot.
// PolicyIntervalOverlap additionally rejects slots that overlap an existing
// one for the same doctor or patient. Slots touching at a boundary are
// never in conflict.
type Policy string

const (
	PolicyExactMatch      Policy = "exact-match"
	PolicyIntervalOverlap Policy = "interval-overlap"
)

// ParsePolicy validates a policy name. An empty name selects PolicyExactMatch.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyExactMatch:
		return PolicyExactMatch, nil
	case PolicyIntervalOverlap:
		return PolicyIntervalOverlap, nil
	default:
		return "", fmt.Errorf("policy must be %q or %q, got %q", PolicyExactMatch, PolicyIntervalOverlap, s)
	}
}

// ChecksOverlap reports whether the policy scans for interval overlap.
func (p Policy) ChecksOverlap() bool {
	return p == PolicyIntervalOverlap
}

// ZeroLength decides whether a slot whose start equals its end is bookable.
type ZeroLength string

const (
	ZeroLengthReject ZeroLength = "reject"
	ZeroLengthAllow  ZeroLength = "allow"
)

// ParseZeroLength validates a zero-length policy name. Empty means reject.
func ParseZeroLength(s string) (ZeroLength, error) {
	switch ZeroLength(s) {
	case "", ZeroLengthReject:
		return ZeroLengthReject, nil
	case ZeroLengthAllow:
		return ZeroLengthAllow, nil
	default:
		return "", fmt.Errorf("zero_length must be %q or %q, got %q", ZeroLengthReject, ZeroLengthAllow, s)
	}
}

// Rules bundles the slot policies the service enforces.
type Rules struct {
	Policy     Policy
	ZeroLength ZeroLength
}

// check applies the ordering and zero-length rules to a parsed slot.
func (r Rules) check(s slot.Slot) error {
	if !s.IsOrdered() {
		return fmt.Errorf("%w: %s", ErrInvalidSlot, s)
	}
	if s.IsZeroLength() && r.ZeroLength != ZeroLengthAllow {
		return fmt.Errorf("%w: %s has zero length", ErrInvalidSlot, s)
	}
	return nil
}

// parse parses slot text and applies the rules.
func (r Rules) parse(text string) (slot.Slot, error) {
	s, err := slot.ParseSlot(text)
	if err != nil {
		return slot.Slot{}, err
	}
	if err := r.check(s); err != nil {
		return slot.Slot{}, err
	}
	return s, nil
}
