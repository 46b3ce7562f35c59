// Package appointment books, cancels and reschedules doctor appointments.
package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/turno/internal/slot"
)

// Patient identifies who the appointment is for. Email is the lookup key.
type Patient struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Reservation binds a patient and a doctor to a time slot.
type Reservation struct {
	ID        string    `json:"id"`
	Patient   Patient   `json:"patient"`
	Doctor    string    `json:"doctorName"`
	Slot      slot.Slot `json:"timeSlot"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewReservation creates a reservation with a fresh ID.
func NewReservation(p Patient, doctor string, s slot.Slot, now time.Time) *Reservation {
	return &Reservation{
		ID:        uuid.NewString(),
		Patient:   p,
		Doctor:    doctor,
		Slot:      s,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a copy that shares no state with r.
func (r *Reservation) Clone() *Reservation {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// IsForPatient reports whether the reservation belongs to the patient email.
func (r *Reservation) IsForPatient(email string) bool {
	return r.Patient.Email == email
}

// IsWithDoctor reports whether the reservation is with the named doctor.
func (r *Reservation) IsWithDoctor(doctor string) bool {
	return r.Doctor == doctor
}

// Matches reports whether r is the patient's booking for exactly this slot.
func (r *Reservation) Matches(email string, s slot.Slot) bool {
	return r.IsForPatient(email) && r.Slot.Equal(s)
}
