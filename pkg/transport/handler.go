package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nimrelay/nimrelay/pkg/observability"
	"github.com/nimrelay/nimrelay/pkg/upstream"
)

// Handler serves the OpenAI-compatible proxy API. It holds no cross-request
// state beyond the shared backend client and logger.
type Handler struct {
	client *upstream.Client
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewHandler creates the handler set for the proxy routes.
func NewHandler(client *upstream.Client, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{
		client: client,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleRoot)
	mux.HandleFunc("GET /v1", h.handleV1Root)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("POST /v1/chat/completions", h.handleChatCompletions)
	mux.HandleFunc("GET /v1/models", h.handleListModels)

	// CORS preflight: an empty 204 on any route.
	mux.HandleFunc("OPTIONS /", h.handlePreflight)

	h.mux = mux
	return h
}

// Handler returns the http.Handler with the default middleware chain
// applied: CORS, request ID propagation, access logging, panic recovery,
// and request metrics.
func (h *Handler) Handler() http.Handler {
	return Chain(
		CORS(),
		RequestID(),
		Logging(h.logger),
		Recovery(h.logger),
	)(observability.MetricsMiddleware(h.mux))
}

// writeJSON serializes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
