package api

import "fmt"

// ErrorType categorizes errors for the caller-facing envelope.
type ErrorType string

const (
	ErrorTypeUpstream ErrorType = "nvidia_api_error" // backend returned a non-200 status
	ErrorTypeProxy    ErrorType = "proxy_error"      // local failure during non-streaming handling
	ErrorTypeStream   ErrorType = "stream_error"     // failure during streaming relay
	ErrorTypeModels   ErrorType = "models_error"     // local failure during models listing
)

// ProxyError is the structured error returned to callers. Code carries the
// backend HTTP status for nvidia_api_error and is omitted for all other types.
type ProxyError struct {
	Message string    `json:"message"`
	Type    ErrorType `json:"type"`
	Code    int       `json:"code,omitempty"`
}

// Error implements the error interface.
func (e *ProxyError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps a ProxyError for JSON serialization as the top-level
// {"error": ...} envelope.
type ErrorResponse struct {
	Error *ProxyError `json:"error"`
}

// NewUpstreamError creates a nvidia_api_error from a backend status code and
// the raw response body text.
func NewUpstreamError(status int, body string) *ProxyError {
	return &ProxyError{
		Message: "NVIDIA NIM API error: " + body,
		Type:    ErrorTypeUpstream,
		Code:    status,
	}
}

// NewProxyError wraps a local failure from the non-streaming path.
func NewProxyError(err error) *ProxyError {
	return &ProxyError{Message: err.Error(), Type: ErrorTypeProxy}
}

// NewStreamError wraps a failure during streaming relay.
func NewStreamError(err error) *ProxyError {
	return &ProxyError{Message: err.Error(), Type: ErrorTypeStream}
}

// NewModelsError wraps a local failure during models listing.
func NewModelsError(err error) *ProxyError {
	return &ProxyError{Message: err.Error(), Type: ErrorTypeModels}
}
