package appointment

import (
	"errors"

	"github.com/javiermolinar/turno/internal/slot"
)

// Validation errors.
var (
	ErrInvalidSlot   = errors.New("time slot must not end before it starts")
	ErrUnknownDoctor = errors.New("unknown doctor")
)

// Domain errors.
var (
	ErrDoctorSlotTaken  = errors.New("time slot already booked")
	ErrPatientSlotTaken = errors.New("an appointment already exists at this time slot")
	ErrNewSlotTaken     = errors.New("new time slot already booked")
	ErrNotFound         = errors.New("appointment not found")
)

// IsRejection reports whether err is an expected refusal of the request, as
// opposed to a storage failure.
func IsRejection(err error) bool {
	for _, target := range []error{
		ErrInvalidSlot, ErrUnknownDoctor,
		ErrDoctorSlotTaken, ErrPatientSlotTaken, ErrNewSlotTaken, ErrNotFound,
		slot.ErrMalformedSlot, slot.ErrMalformedTime,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
