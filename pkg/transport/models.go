package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/nimrelay/nimrelay/pkg/upstream"
)

// handleListModels handles GET /v1/models. On backend success the raw body
// is returned verbatim; on any failure the static fallback listing is
// served with HTTP 200, trading transparency for availability.
func (h *Handler) handleListModels(w http.ResponseWriter, r *http.Request) {
	body, err := h.client.ListModels(r.Context())
	if err != nil {
		h.logger.Warn("models listing failed, serving fallback",
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusOK, upstream.FallbackModels(time.Now()))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
