package appointment

import "github.com/javiermolinar/turno/internal/slot"

// Conflict describes the first existing reservation a candidate collides with.
type Conflict struct {
	Reservation *Reservation
	ByDoctor    bool // false means the patient is double booked
}

// Found reports whether a conflict was detected.
func (c Conflict) Found() bool {
	return c.Reservation != nil
}

// FindConflict scans reservations for one that shares the doctor or the patient
// with the candidate and whose slot overlaps it. The reservation with ID
// excludeID is skipped so a booking never conflicts with itself.
// A doctor match is reported ahead of a patient match on the same reservation.
func FindConflict(reservations []*Reservation, candidate slot.Slot, doctor, patient, excludeID string) Conflict {
	for _, r := range reservations {
		if r.ID == excludeID && excludeID != "" {
			continue
		}
		if !r.Slot.Overlaps(candidate) {
			continue
		}
		if r.IsWithDoctor(doctor) {
			return Conflict{Reservation: r, ByDoctor: true}
		}
		if r.IsForPatient(patient) {
			return Conflict{Reservation: r}
		}
	}
	return Conflict{}
}

// HasConflict reports whether FindConflict finds anything.
func HasConflict(reservations []*Reservation, candidate slot.Slot, doctor, patient string) bool {
	return FindConflict(reservations, candidate, doctor, patient, "").Found()
}

// findExact returns the first reservation for which match returns true.
func findExact(reservations []*Reservation, match func(*Reservation) bool) *Reservation {
	for _, r := range reservations {
		if match(r) {
			return r
		}
	}
	return nil
}
