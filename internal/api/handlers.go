package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/javiermolinar/turno/internal/appointment"
)

// Handler serves the appointment endpoints.
type Handler struct {
	svc      *appointment.Service
	logger   *zap.Logger
	validate *validator.Validate
}

// NewHandler creates a Handler over svc.
func NewHandler(svc *appointment.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger, validate: newValidator()}
}

// Book handles POST /bookAppointment.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.svc.Book(r.Context(), appointment.BookRequest{
		Patient: appointment.Patient{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
		},
		Doctor:   req.DoctorName,
		TimeSlot: req.TimeSlot,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, MsgNotFound)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{Message: MsgBooked, Appointment: res})
}

// Cancel handles DELETE /cancelAppointment.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if !h.decode(w, r, &req) {
		return
	}

	if _, err := h.svc.Cancel(r.Context(), req.Email, req.TimeSlot); err != nil {
		respondServiceError(w, h.logger, err, MsgNotFound)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: MsgCanceled})
}

// Update handles PUT /updateAppointment.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.svc.Reschedule(r.Context(), req.Email, req.OriginalTimeSlot, req.NewTimeSlot)
	if err != nil {
		respondServiceError(w, h.logger, err, MsgOriginalNotFound)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: MsgUpdated, Appointment: res})
}

// ListByPatient handles GET /appointments/{email}.
func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListByPatient(r.Context(), pathParam(r, "email"))
	if err != nil {
		respondServiceError(w, h.logger, err, MsgNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Appointments: list})
}

// ListByDoctor handles GET /appointments/doctor/{doctorName}.
func (h *Handler) ListByDoctor(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListByDoctor(r.Context(), pathParam(r, "doctorName"))
	if err != nil {
		respondServiceError(w, h.logger, err, MsgNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Appointments: list})
}

// Get handles GET /appointments/id/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Get(r.Context(), pathParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err, MsgNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointment": res})
}

// Doctors handles GET /doctors.
func (h *Handler) Doctors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"doctors": h.svc.Doctors()})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathParam returns the decoded URL parameter. chi matches on RawPath when
// the request has one, and on the already decoded Path otherwise.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
