package upstream

import (
	"encoding/json"

	"github.com/nimrelay/nimrelay/pkg/api"
)

// emptyMessages is what the backend receives when the inbound request
// carried no messages key. Absence is not validated locally; the backend
// decides what to do with an empty list.
var emptyMessages = json.RawMessage("[]")

// BuildPayload translates an inbound chat completions request into the
// backend payload. Required fields get defaults when missing; the optional
// sampling fields are forwarded only when the key was present on the
// inbound body, so the backend never sees a substituted null or zero.
func BuildPayload(req *api.ChatCompletionRequest) *api.ChatCompletionPayload {
	p := &api.ChatCompletionPayload{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: api.DefaultTemperature,
		MaxTokens:   api.DefaultMaxTokens,
		Stream:      req.Stream,

		TopP:             req.TopP,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
	}

	if p.Model == "" {
		p.Model = api.DefaultModel
	}
	if len(p.Messages) == 0 {
		p.Messages = emptyMessages
	}
	if req.Temperature != nil {
		p.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		p.MaxTokens = *req.MaxTokens
	}

	return p
}
