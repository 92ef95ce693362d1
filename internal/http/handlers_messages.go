package httpx

import (
	"errors"
	"net/http"

	"github.com/lindasales/salespro/internal/domain/model"
	"github.com/lindasales/salespro/internal/service"
)

// MessageHandlers provides HTTP handlers for the messaging workspace.
type MessageHandlers struct {
	Svc *service.MessageService
}

const maxThreadLimit = 500

// Send handles HTTP requests to record an outbound or inbound message.
func (h *MessageHandlers) Send(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var req model.CreateMessageRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		return
	}

	msg, err := h.Svc.Send(r.Context(), ownerID, &req)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "send_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusCreated, msg)
}

// Thread handles HTTP requests to list the conversation with one contact.
func (h *MessageHandlers) Thread(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	contact := r.PathValue("contact")
	if contact == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("contact is required")})
		return
	}

	limit, _ := ParseLimitOffset(r, 100, maxThreadLimit)
	msgs, err := h.Svc.Thread(r.Context(), ownerID, contact, limit)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"contact":  contact,
		"messages": msgs,
		"limit":    limit,
	})
}

// Contacts handles HTTP requests to list the owner's message contacts.
func (h *MessageHandlers) Contacts(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	contacts, err := h.Svc.Contacts(r.Context(), ownerID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	if contacts == nil {
		contacts = []string{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"contacts": contacts})
}
