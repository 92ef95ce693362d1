package httpx

import (
	"errors"
	"net/http"

	"github.com/lindasales/salespro/internal/service"
)

// ShellHandlers exposes the dashboard shell state: the per-session sidebar
// boolean and the session bootstrap status the client polls while loading.
type ShellHandlers struct {
	Shell   *service.ShellService
	Watcher *service.SessionWatcher
}

// State reports the shell state for the current session.
// GET /api/shell.
func (h *ShellHandlers) State(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"ready":         h.Watcher.Ready(sess.ID),
		"authenticated": h.Watcher.Authenticated(sess.ID),
		"sidebar_open":  h.Shell.State(sess.ID),
	})
}

// ToggleSidebar flips the sidebar and returns the new state.
// POST /api/shell/sidebar/toggle.
func (h *ShellHandlers) ToggleSidebar(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}

	open := h.Shell.Toggle(sess.ID)
	WriteJSON(w, http.StatusOK, map[string]any{"sidebar_open": open})
}

// CloseSidebar forces the sidebar shut; closing twice is a no-op.
// POST /api/shell/sidebar/close.
func (h *ShellHandlers) CloseSidebar(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}

	h.Shell.Close(sess.ID)
	WriteJSON(w, http.StatusOK, map[string]any{"sidebar_open": false})
}
