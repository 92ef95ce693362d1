package httpx

import (
	"errors"
	"net/http"

	"github.com/lindasales/salespro/internal/data"
	"github.com/lindasales/salespro/internal/domain/model"
	"github.com/lindasales/salespro/internal/service"
)

// OfferHandlers provides HTTP handlers for offer operations.
type OfferHandlers struct {
	Svc *service.OfferService
}

const maxOfferListLimit = 200

// Create handles HTTP requests to publish a new offer.
func (h *OfferHandlers) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var req model.CreateOfferRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		return
	}

	offer, err := h.Svc.Create(r.Context(), ownerID, &req)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusCreated, offer)
}

// List handles HTTP requests to list the owner's offers.
func (h *OfferHandlers) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	limit, offset := ParseLimitOffset(r, 50, maxOfferListLimit)
	offers, err := h.Svc.List(r.Context(), ownerID, limit, offset)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"offers": offers,
		"limit":  limit,
		"offset": offset,
	})
}

// GetByID handles HTTP requests to get one of the owner's offers.
func (h *OfferHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("offer id is required")})
		return
	}

	offer, err := h.Svc.GetByID(r.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, data.ErrOfferNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "offer_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, offer)
}

// Update handles HTTP requests to update one of the owner's offers.
func (h *OfferHandlers) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("offer id is required")})
		return
	}

	var req model.UpdateOfferRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		return
	}

	offer, err := h.Svc.Update(r.Context(), ownerID, id, req)
	if err != nil {
		if errors.Is(err, data.ErrOfferNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "offer_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, offer)
}

// Delete handles HTTP requests to retire one of the owner's offers.
func (h *OfferHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("offer id is required")})
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), ownerID, id)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "offer_not_found", Err: errors.New("offer not found")})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
