package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nimrelay/nimrelay/pkg/api"
)

// HTTPStatusFromError maps a ProxyError type to the HTTP status code sent
// to the caller. A backend error propagates the backend status; everything
// else is an internal failure. Stream errors never reach this path because
// they are emitted as SSE frames on an already-committed response.
func HTTPStatusFromError(err *api.ProxyError) int {
	switch err.Type {
	case api.ErrorTypeUpstream:
		if err.Code != 0 {
			return err.Code
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteProxyError writes a ProxyError as the {"error": ...} JSON envelope,
// deriving the HTTP status code from the error type.
func WriteProxyError(w http.ResponseWriter, proxyErr *api.ProxyError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatusFromError(proxyErr))
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: proxyErr})
}

// WriteError writes any error as a proxy error envelope, preserving typed
// ProxyError values and wrapping everything else as proxy_error.
func WriteError(w http.ResponseWriter, err error) {
	var proxyErr *api.ProxyError
	if !errors.As(err, &proxyErr) {
		proxyErr = api.NewProxyError(err)
	}
	WriteProxyError(w, proxyErr)
}
