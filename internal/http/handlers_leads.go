// Package httpx provides the HTTP surface of the salespro CRM API.
package httpx

import (
	"errors"
	"net/http"

	"github.com/lindasales/salespro/internal/data"
	"github.com/lindasales/salespro/internal/domain/model"
	"github.com/lindasales/salespro/internal/service"
)

// LeadHandlers provides HTTP handlers for lead operations.
type LeadHandlers struct {
	Svc *service.LeadService
}

const maxLeadListLimit = 200

// Create handles HTTP requests to create a new lead.
func (h *LeadHandlers) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var req model.CreateLeadRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		return
	}

	lead, err := h.Svc.Create(r.Context(), ownerID, &req)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusCreated, lead)
}

// List handles HTTP requests to list the owner's leads with filtering.
func (h *LeadHandlers) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	limit, offset := ParseLimitOffset(r, 50, maxLeadListLimit)
	opts := model.LeadsListOptions{Limit: limit, Offset: offset}
	if q := r.URL.Query().Get("q"); q != "" {
		opts.Q = &q
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := model.LeadStatus(s)
		if !status.Valid() {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: errors.New("invalid lead status")})
			return
		}
		opts.Status = &status
	}

	leads, err := h.Svc.List(r.Context(), ownerID, opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"leads":  leads,
		"limit":  limit,
		"offset": offset,
	})
}

// GetByID handles HTTP requests to get one of the owner's leads.
func (h *LeadHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("lead id is required")})
		return
	}

	lead, err := h.Svc.GetByID(r.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, data.ErrLeadNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "lead_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, lead)
}

// Update handles HTTP requests to update one of the owner's leads.
func (h *LeadHandlers) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("lead id is required")})
		return
	}

	var req model.UpdateLeadRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		return
	}

	lead, err := h.Svc.Update(r.Context(), ownerID, id, req)
	if err != nil {
		if errors.Is(err, data.ErrLeadNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "lead_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, lead)
}

// Delete handles HTTP requests to delete one of the owner's leads.
func (h *LeadHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("lead id is required")})
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), ownerID, id)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "lead_not_found", Err: errors.New("lead not found")})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
