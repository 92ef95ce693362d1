package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lindasales/salespro/internal/observability/metrics"
	"github.com/lindasales/salespro/internal/service"
)

// LeadGenHandlers provides the public capture webhook for external lead-gen
// forms. Capture is unauthenticated; the owning account comes from the
// `owner` query parameter handed out with the embed snippet.
type LeadGenHandlers struct {
	Svc     *service.LeadGenService
	Metrics *metrics.Collector
	Logger  *slog.Logger
}

// Capture handles HTTP requests from embedded lead-gen forms.
func (h *LeadGenHandlers) Capture(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner")
	if ownerID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "owner_required", Err: errors.New("owner query parameter is required")})
		return
	}

	var payload map[string]any
	if !DecodeJSON(w, r, &payload) {
		return
	}

	lead, err := h.Svc.Capture(r.Context(), ownerID, payload)
	if err != nil {
		if isValidationError(err) {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
			return
		}
		if h.Logger != nil {
			h.Logger.Error("lead capture failed", "owner_id", ownerID, "error", err)
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "capture_failed", Err: err})
		return
	}

	h.Metrics.RecordLeadCaptured()
	WriteJSON(w, http.StatusCreated, map[string]any{
		"captured": true,
		"lead_id":  lead.ID,
	})
}
