package httpx

import (
	"errors"
	"net/http"

	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/data"
	"github.com/lindasales/salespro/internal/service"
)

// ProfileHandlers serves the durable per-user profile record. The watcher's
// reconciled copy is preferred; the repository is the fallback for sessions
// whose bootstrap event has not been processed yet.
type ProfileHandlers struct {
	Watcher  *service.SessionWatcher
	Profiles core.ProfileRepository
}

// Get returns the profile for the current session's user.
// GET /api/profile.
func (h *ProfileHandlers) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}

	if profile, found := h.Watcher.Profile(sess.ID); found {
		WriteJSON(w, http.StatusOK, profile)
		return
	}

	profile, err := h.Profiles.Get(r.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, data.ErrProfileNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "profile_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "profile_load_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}
