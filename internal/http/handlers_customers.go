package httpx

import (
	"errors"
	"net/http"

	"github.com/lindasales/salespro/internal/data"
	"github.com/lindasales/salespro/internal/domain/model"
	"github.com/lindasales/salespro/internal/service"
)

// CustomerHandlers provides HTTP handlers for customer operations.
type CustomerHandlers struct {
	Svc *service.CustomerService
}

const maxCustomerListLimit = 200

// Create handles HTTP requests to create a new customer.
func (h *CustomerHandlers) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var req model.CreateCustomerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		return
	}

	customer, err := h.Svc.Create(r.Context(), ownerID, &req)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusCreated, customer)
}

// Promote handles HTTP requests to convert a lead into a customer.
func (h *CustomerHandlers) Promote(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	leadID := r.PathValue("id")
	if leadID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("lead id is required")})
		return
	}

	customer, err := h.Svc.PromoteLead(r.Context(), ownerID, leadID)
	if err != nil {
		if errors.Is(err, data.ErrLeadNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "lead_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "promote_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusCreated, customer)
}

// List handles HTTP requests to list the owner's customers.
func (h *CustomerHandlers) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	limit, offset := ParseLimitOffset(r, 50, maxCustomerListLimit)
	customers, err := h.Svc.List(r.Context(), ownerID, limit, offset)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"customers": customers,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetByID handles HTTP requests to get one of the owner's customers.
func (h *CustomerHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("customer id is required")})
		return
	}

	customer, err := h.Svc.GetByID(r.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, data.ErrCustomerNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "customer_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, customer)
}

// Update handles HTTP requests to update one of the owner's customers.
func (h *CustomerHandlers) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("customer id is required")})
		return
	}

	var req model.UpdateCustomerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		return
	}

	customer, err := h.Svc.Update(r.Context(), ownerID, id, req)
	if err != nil {
		if errors.Is(err, data.ErrCustomerNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "customer_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, customer)
}

// Delete handles HTTP requests to delete one of the owner's customers.
func (h *CustomerHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("customer id is required")})
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), ownerID, id)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "customer_not_found", Err: errors.New("customer not found")})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
