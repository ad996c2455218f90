// Package integration provides integration tests for the nimrelay proxy.
//
// Tests run against the full middleware-wrapped proxy handler backed by a
// mock NIM backend, both started in-process using net/http/httptest.
package integration

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nimrelay/nimrelay/pkg/config"
	"github.com/nimrelay/nimrelay/pkg/transport"
	"github.com/nimrelay/nimrelay/pkg/upstream"
)

// testEnv holds the shared servers for all integration tests.
var testEnv *TestEnvironment

// TestEnvironment holds the proxy server and mock NIM backend for testing.
type TestEnvironment struct {
	ProxyServer *httptest.Server
	MockBackend *httptest.Server

	client *upstream.Client

	// modelsDown makes GET /models on the mock backend fail while set,
	// forcing the proxy onto its fallback listing.
	modelsDown atomic.Bool
}

// TestMain starts the mock backend and proxy server before running tests.
func TestMain(m *testing.M) {
	testEnv = setupTestEnvironment()
	code := m.Run()
	testEnv.Teardown()
	os.Exit(code)
}

// setupTestEnvironment creates a mock NIM backend and a proxy wired to it.
func setupTestEnvironment() *TestEnvironment {
	env := &TestEnvironment{}
	env.MockBackend = env.startMockBackend()

	env.client = upstream.NewClient(config.UpstreamConfig{
		BaseURL:       env.MockBackend.URL,
		APIKey:        "integration-test-key",
		ChatTimeout:   10 * time.Second,
		ModelsTimeout: 5 * time.Second,
	})

	env.ProxyServer = httptest.NewServer(transport.NewHandler(env.client, nil).Handler())
	return env
}

// Teardown stops both servers.
func (env *TestEnvironment) Teardown() {
	if env.ProxyServer != nil {
		env.ProxyServer.Close()
	}
	if env.client != nil {
		env.client.Close()
	}
	if env.MockBackend != nil {
		env.MockBackend.Close()
	}
}

// BaseURL returns the proxy server base URL.
func (env *TestEnvironment) BaseURL() string {
	return env.ProxyServer.URL
}

// --- HTTP helpers ---

// postJSON sends a POST request with JSON body and returns the response.
func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

// getURL sends a GET request and returns the response.
func getURL(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	return string(body)
}

// decodeJSON reads the response body and decodes it into the target.
func decodeJSON(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("decoding JSON: %v", err)
	}
}

// readDataLines reads the response body as an SSE stream and returns the
// payload of every data line, in order.
func readDataLines(t *testing.T, resp *http.Response) []string {
	t.Helper()
	defer resp.Body.Close()

	var payloads []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if line := scanner.Text(); strings.HasPrefix(line, "data: ") {
			payloads = append(payloads, strings.TrimPrefix(line, "data: "))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("reading stream: %v", err)
	}
	return payloads
}

// --- Mock NIM backend ---

// Models with this prefix make the mock chat endpoint fail with the status
// encoded after the slash, e.g. "fail/503".
const failModelPrefix = "fail/"

// startMockBackend creates an httptest server that mimics the NIM API
// surface the proxy talks to. The base URL stands in for the /v1 root, so
// routes are unprefixed.
func (env *TestEnvironment) startMockBackend() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /chat/completions", env.handleMockChat)
	mux.HandleFunc("GET /models", func(w http.ResponseWriter, r *http.Request) {
		if env.modelsDown.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"models unavailable"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"id": "meta/llama-3.1-70b-instruct", "object": "model", "owned_by": "nvidia"},
				{"id": "mock/test-model", "object": "model", "owned_by": "test"},
			},
		})
	})

	return httptest.NewServer(mux)
}

// handleMockChat serves deterministic chat completions, streaming when the
// forwarded payload asks for it.
func (env *TestEnvironment) handleMockChat(w http.ResponseWriter, r *http.Request) {
	if got := r.Header.Get("Authorization"); got != "Bearer integration-test-key" {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"missing or invalid api key"}`))
		return
	}

	var req struct {
		Model       string          `json:"model"`
		Messages    json.RawMessage `json:"messages"`
		Temperature float64         `json:"temperature"`
		MaxTokens   int             `json:"max_tokens"`
		Stream      bool            `json:"stream"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"invalid payload"}`))
		return
	}

	if status, ok := strings.CutPrefix(req.Model, failModelPrefix); ok {
		code := http.StatusInternalServerError
		fmt.Sscanf(status, "%d", &code)
		w.WriteHeader(code)
		fmt.Fprintf(w, `{"detail":"induced failure %d"}`, code)
		return
	}

	if req.Stream {
		env.handleMockChatStream(w, req.Model)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-mock",
		"object": "chat.completion",
		"model":  req.Model,
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": "Hello from mock NIM!"},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15,
		},
	})
}

// handleMockChatStream sends SSE chunks ending with the [DONE] sentinel,
// interleaved with keep-alive comments that the proxy must filter out.
func (env *TestEnvironment) handleMockChatStream(w http.ResponseWriter, model string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	tokens := []string{"Hello", " from", " mock", " NIM!"}
	for i, token := range tokens {
		data, _ := json.Marshal(map[string]any{
			"id": "chatcmpl-mock-stream", "object": "chat.completion.chunk", "model": model,
			"choices": []map[string]any{
				{"index": 0, "delta": map[string]any{"content": token}, "finish_reason": nil},
			},
		})
		fmt.Fprintf(w, "data: %s\n\n", data)
		if i == 1 {
			fmt.Fprint(w, ": keep-alive\n\n")
		}
		flusher.Flush()
	}

	finishData, _ := json.Marshal(map[string]any{
		"id": "chatcmpl-mock-stream", "object": "chat.completion.chunk", "model": model,
		"choices": []map[string]any{
			{"index": 0, "delta": map[string]any{}, "finish_reason": "stop"},
		},
	})
	fmt.Fprintf(w, "data: %s\n\n", finishData)
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}
