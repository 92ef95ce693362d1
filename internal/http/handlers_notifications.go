package httpx

import (
	"errors"
	"net/http"

	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/service"
)

// NotificationHandlers drains the transient per-user notification queue.
type NotificationHandlers struct {
	Svc *service.NotificationService
}

// Pending returns and removes the caller's undelivered notifications. The
// client polls this; the store's TTL drops anything not picked up in time.
// GET /api/notifications.
func (h *NotificationHandlers) Pending(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}

	pending, err := h.Svc.Pending(r.Context(), sess.UserID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "notifications_failed", Err: err})
		return
	}
	if pending == nil {
		pending = []core.Notification{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"notifications": pending})
}
