package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nimrelay/nimrelay/pkg/api"
	"github.com/nimrelay/nimrelay/pkg/config"
	"github.com/nimrelay/nimrelay/pkg/observability"
)

// Client performs HTTP requests against the NVIDIA NIM Chat Completions
// backend. All methods return *api.ProxyError values so callers can map
// failures onto the caller-facing envelope without inspecting causes.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	chatTimeout   time.Duration
	modelsTimeout time.Duration
}

// NewClient creates a Client for the configured NIM backend. Zero timeouts
// fall back to the 120s chat / 30s models budgets.
func NewClient(cfg config.UpstreamConfig) *Client {
	// Normalize: remove trailing slash from base URL.
	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	chatTimeout := cfg.ChatTimeout
	if chatTimeout == 0 {
		chatTimeout = 120 * time.Second
	}
	modelsTimeout := cfg.ModelsTimeout
	if modelsTimeout == 0 {
		modelsTimeout = 30 * time.Second
	}

	return &Client{
		// No overall client timeout: each call sets a context deadline, and
		// a stream must be able to outlive the header budget while data is
		// still flowing.
		httpClient: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: chatTimeout,
			},
		},
		baseURL:       baseURL,
		apiKey:        cfg.APIKey,
		chatTimeout:   chatTimeout,
		modelsTimeout: modelsTimeout,
	}
}

// Complete performs the blocking chat completions call and returns the raw
// backend body on HTTP 200. A non-200 status becomes a nvidia_api_error
// carrying the status code and raw body text; any transport or read failure
// becomes a proxy_error.
func (c *Client) Complete(ctx context.Context, payload *api.ChatCompletionPayload) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, api.NewProxyError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.chatTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, api.NewProxyError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.ObserveUpstream("chat_completions", "error", time.Since(start))
		return nil, api.NewProxyError(err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		observability.ObserveUpstream("chat_completions", "error", time.Since(start))
		return nil, api.NewProxyError(err)
	}

	if httpResp.StatusCode != http.StatusOK {
		observability.ObserveUpstream("chat_completions", "error", time.Since(start))
		return nil, api.NewUpstreamError(httpResp.StatusCode, string(raw))
	}

	observability.ObserveUpstream("chat_completions", "success", time.Since(start))
	return raw, nil
}

// ListModels queries the backend models endpoint and returns the raw body
// on HTTP 200. Failures are returned for the caller to mask with the static
// fallback listing.
func (c *Client) ListModels(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.modelsTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, api.NewModelsError(err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.ObserveUpstream("models", "error", time.Since(start))
		return nil, api.NewModelsError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		observability.ObserveUpstream("models", "error", time.Since(start))
		raw, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return nil, api.NewUpstreamError(httpResp.StatusCode, string(raw))
	}

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		observability.ObserveUpstream("models", "error", time.Since(start))
		return nil, api.NewModelsError(err)
	}

	observability.ObserveUpstream("models", "success", time.Since(start))
	return raw, nil
}

// FallbackModels returns the static listing served when the backend models
// endpoint is unavailable. Created is stamped with the given time.
func FallbackModels(now time.Time) *api.ModelsResponse {
	created := now.Unix()
	return &api.ModelsResponse{
		Object: "list",
		Data: []api.Model{
			{ID: "meta/llama-3.1-70b-instruct", Object: "model", Created: created, OwnedBy: "nvidia"},
			{ID: "deepseek-ai/deepseek-r1", Object: "model", Created: created, OwnedBy: "nvidia"},
		},
	}
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
