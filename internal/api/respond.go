package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/javiermolinar/turno/internal/appointment"
	"github.com/javiermolinar/turno/internal/slot"
)

// Response messages shown to API clients.
const (
	MsgBooked           = "Appointment booked."
	MsgCanceled         = "Appointment canceled."
	MsgUpdated          = "Appointment updated."
	MsgValidationFailed = "Validation failed"
	MsgInvalidDoctor    = "Invalid doctor name."
	MsgInvalidSlot      = "Invalid time slot"
	MsgSlotTaken        = "Time slot already booked."
	MsgPatientSlotTaken = "An Appointment already exists at this time slot"
	MsgNewSlotTaken     = "New time slot already booked."
	MsgNotFound         = "Appointment not found."
	MsgOriginalNotFound = "Original appointment not found."
	MsgInternal         = "internal server error"
)

// MessageResponse carries an outcome message and, optionally, the reservation.
type MessageResponse struct {
	Message     string                   `json:"message"`
	Appointment *appointment.Reservation `json:"appointment,omitempty"`
}

// ListResponse carries a list of reservations.
type ListResponse struct {
	Appointments []*appointment.Reservation `json:"appointments"`
}

// ErrorResponse is returned for rejected requests.
type ErrorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// ValidationErrorResponse lists the fields that failed request validation.
type ValidationErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details"`
}

// FieldError names a field and the rule it broke.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondServiceError maps a service error to a status code and message.
// notFound overrides the message for ErrNotFound.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, appointment.ErrUnknownDoctor):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: MsgInvalidDoctor, Detail: err.Error()})

	case errors.Is(err, appointment.ErrInvalidSlot),
		errors.Is(err, slot.ErrMalformedSlot),
		errors.Is(err, slot.ErrMalformedTime):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: MsgInvalidSlot, Detail: err.Error()})

	case errors.Is(err, appointment.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Message: notFound})

	case errors.Is(err, appointment.ErrDoctorSlotTaken):
		writeJSON(w, http.StatusConflict, ErrorResponse{Message: MsgSlotTaken, Detail: err.Error()})

	case errors.Is(err, appointment.ErrPatientSlotTaken):
		writeJSON(w, http.StatusConflict, ErrorResponse{Message: MsgPatientSlotTaken, Detail: err.Error()})

	case errors.Is(err, appointment.ErrNewSlotTaken):
		writeJSON(w, http.StatusConflict, ErrorResponse{Message: MsgNewSlotTaken, Detail: err.Error()})

	default:
		logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: MsgInternal})
	}
}
