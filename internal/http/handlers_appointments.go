package httpx

import (
	"errors"
	"net/http"
	"time"

	"github.com/lindasales/salespro/internal/data"
	"github.com/lindasales/salespro/internal/domain/model"
	"github.com/lindasales/salespro/internal/service"
)

// AppointmentHandlers provides HTTP handlers for appointment operations.
type AppointmentHandlers struct {
	Svc *service.AppointmentService
}

const maxAppointmentListLimit = 200

// Create handles HTTP requests to schedule a new appointment.
func (h *AppointmentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var req model.CreateAppointmentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		return
	}

	appt, err := h.Svc.Create(r.Context(), ownerID, &req)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusCreated, appt)
}

// List handles HTTP requests to list the owner's upcoming appointments.
// An optional ?from=RFC3339 query narrows the window start; it defaults to now.
func (h *AppointmentHandlers) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var from time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: errors.New("from must be an RFC 3339 timestamp")})
			return
		}
		from = parsed
	}

	limit, _ := ParseLimitOffset(r, 50, maxAppointmentListLimit)
	appts, err := h.Svc.ListUpcoming(r.Context(), ownerID, from, limit)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"appointments": appts,
		"limit":        limit,
	})
}

// GetByID handles HTTP requests to get one of the owner's appointments.
func (h *AppointmentHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("appointment id is required")})
		return
	}

	appt, err := h.Svc.GetByID(r.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, data.ErrAppointmentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "appointment_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, appt)
}

// Update handles HTTP requests to update one of the owner's appointments.
func (h *AppointmentHandlers) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("appointment id is required")})
		return
	}

	var req model.UpdateAppointmentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		return
	}

	appt, err := h.Svc.Update(r.Context(), ownerID, id, req)
	if err != nil {
		if errors.Is(err, data.ErrAppointmentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "appointment_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, appt)
}

// Delete handles HTTP requests to cancel one of the owner's appointments.
func (h *AppointmentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("appointment id is required")})
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), ownerID, id)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "appointment_not_found", Err: errors.New("appointment not found")})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
