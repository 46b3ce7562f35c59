package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// timeSlotPattern is the lexical shape a time slot must have before parsing.
var timeSlotPattern = regexp.MustCompile(
	`^(1[0-2]|0?[1-9]):[0-5][0-9] (AM|PM) - (1[0-2]|0?[1-9]):[0-5][0-9] (AM|PM)$`)

// BookRequest is the body of POST /bookAppointment.
type BookRequest struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	TimeSlot   string `json:"timeSlot" validate:"required,timeslot"`
	DoctorName string `json:"doctorName" validate:"required"`
}

// CancelRequest is the body of DELETE /cancelAppointment.
type CancelRequest struct {
	Email    string `json:"email" validate:"required,email"`
	TimeSlot string `json:"timeSlot" validate:"required,timeslot"`
}

// UpdateRequest is the body of PUT /updateAppointment.
type UpdateRequest struct {
	Email            string `json:"email" validate:"required,email"`
	OriginalTimeSlot string `json:"originalTimeSlot" validate:"required,timeslot"`
	NewTimeSlot      string `json:"newTimeSlot" validate:"required,timeslot"`
}

// newValidator returns a validator that knows the timeslot tag and reports
// fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		return timeSlotPattern.MatchString(fl.Field().String())
	})
	return v
}

// decode reads a JSON body into dst and validates it. Unknown fields are
// rejected. On failure the 400 response has already been written.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		detail := err.Error()
		if errors.Is(err, io.EOF) {
			detail = "request body is empty"
		}
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:   MsgValidationFailed,
			Details: []FieldError{{Field: "body", Rule: detail}},
		})
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:   MsgValidationFailed,
				Details: []FieldError{{Field: "body", Rule: err.Error()}},
			})
			return false
		}
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{Field: fe.Field(), Rule: ruleName(fe)})
		}
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{Error: MsgValidationFailed, Details: details})
		return false
	}

	return true
}

func ruleName(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
}
