package api

import "encoding/json"

// Default values substituted for required chat fields missing from the
// inbound request.
const (
	DefaultModel       = "meta/llama-3.1-70b-instruct"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1024
)

// ChatCompletionRequest is the inbound OpenAI-style chat completions body.
//
// Messages is kept as raw JSON and forwarded to the backend unchanged: the
// proxy performs no schema validation, so a malformed message list surfaces
// as whatever error the backend returns. The optional sampling fields are
// pointers so that an absent key can be distinguished from an explicit zero.
type ChatCompletionRequest struct {
	Messages    json.RawMessage `json:"messages,omitempty"`
	Model       string          `json:"model,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
	MaxTokens   *int            `json:"max_tokens,omitempty"`
	Stream      bool            `json:"stream,omitempty"`

	TopP             *float64 `json:"top_p,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
}

// ChatCompletionPayload is the body sent to the NIM backend. Required fields
// are always serialized, with defaults substituted where the inbound request
// left them out. Optional fields are serialized only when the corresponding
// key was present on the inbound request.
type ChatCompletionPayload struct {
	Model       string          `json:"model"`
	Messages    json.RawMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
	Stream      bool            `json:"stream"`

	TopP             *float64 `json:"top_p,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
}

// Model describes a single entry in a models listing.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelsResponse is the OpenAI-style models listing envelope.
type ModelsResponse struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}
