package upstream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nimrelay/nimrelay/pkg/api"
	"github.com/nimrelay/nimrelay/pkg/observability"
)

// framePrefix is the SSE data-line prefix; only lines carrying it are
// relayed to the caller.
const framePrefix = "data: "

// Stream performs the streaming chat completions call and relays qualifying
// SSE lines from the backend. Each channel value is a complete frame already
// terminated with "\n\n". The channel is closed when the backend stream
// ends, a read error occurs (after exactly one final stream_error frame),
// or ctx is cancelled.
//
// The backend body is relayed regardless of status code: a non-200 error
// body contains no "data: " lines, so the caller simply receives an empty
// stream. Lifetime is controlled by ctx; the response-header budget is the
// only fixed timeout, since a healthy stream can legitimately run longer.
func (c *Client) Stream(ctx context.Context, payload *api.ChatCompletionPayload) (<-chan string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, api.NewStreamError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, api.NewStreamError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.ObserveUpstream("chat_completions", "error", time.Since(start))
		return nil, api.NewStreamError(err)
	}
	observability.ObserveUpstream("chat_completions", "success", time.Since(start))

	ch := make(chan string, 16)
	go func() {
		defer close(ch)
		defer httpResp.Body.Close()
		relayLines(ctx, httpResp.Body, ch)
	}()

	return ch, nil
}

// relayLines forwards qualifying SSE lines from the backend body to ch.
// Keep-alives, comments, and blank lines are dropped. A read error produces
// exactly one final stream_error frame; context cancellation produces none.
func relayLines(ctx context.Context, body io.Reader, ch chan<- string) {
	scanner := bufio.NewScanner(body)
	// A single completion chunk can exceed the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, framePrefix) {
			continue
		}

		select {
		case ch <- line + "\n\n":
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		// Cancellation surfaces as a read error on the closed body; the
		// caller went away, so no error frame is owed.
		if ctx.Err() != nil {
			return
		}
		select {
		case ch <- ErrorFrame(err):
		case <-ctx.Done():
		}
	}
}

// ErrorFrame renders an error as the single terminal SSE frame emitted on
// a broken stream.
func ErrorFrame(err error) string {
	data, mErr := json.Marshal(api.ErrorResponse{Error: api.NewStreamError(err)})
	if mErr != nil {
		// An error message that cannot be marshaled still owes a frame.
		return framePrefix + `{"error":{"message":"stream failed","type":"stream_error"}}` + "\n\n"
	}
	return framePrefix + string(data) + "\n\n"
}
