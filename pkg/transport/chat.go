package transport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/nimrelay/nimrelay/pkg/api"
	"github.com/nimrelay/nimrelay/pkg/observability"
	"github.com/nimrelay/nimrelay/pkg/upstream"
)

// handleChatCompletions handles POST /v1/chat/completions. The inbound body
// is translated to the backend payload and dispatched to the blocking or
// streaming path depending on the stream flag.
func (h *Handler) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req api.ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Parse failures surface as proxy_error with status 500; existing
		// callers depend on this rather than a 400.
		WriteProxyError(w, api.NewProxyError(err))
		return
	}

	payload := upstream.BuildPayload(&req)

	if payload.Stream {
		h.streamChatCompletions(w, r, payload)
		return
	}

	body, err := h.client.Complete(r.Context(), payload)
	if err != nil {
		WriteError(w, err)
		return
	}

	// Backend body is returned verbatim.
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// streamChatCompletions relays the backend SSE stream frame by frame. The
// response is committed as text/event-stream before the backend call, so
// every failure from that point on - including connect failures - is
// reported as a single terminal stream_error frame.
func (h *Handler) streamChatCompletions(w http.ResponseWriter, r *http.Request, payload *api.ChatCompletionPayload) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	defer observability.TrackStream()()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	rc := http.NewResponseController(w)

	frames, err := h.client.Stream(ctx, payload)
	if err != nil {
		io.WriteString(w, upstream.ErrorFrame(err))
		rc.Flush()
		return
	}

	for frame := range frames {
		if _, err := io.WriteString(w, frame); err != nil {
			// Caller went away: stop consuming the backend stream. The
			// relay goroutine observes the cancellation and closes the
			// channel, releasing the backend connection.
			h.logger.Debug("stream caller disconnected",
				slog.String("request_id", RequestIDFromContext(r.Context())),
			)
			return
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
