package transport

import "net/http"

// serviceDescriptor is the static JSON shape returned by the meta endpoints.
type serviceDescriptor struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// healthStatus is the static health check payload.
type healthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, serviceDescriptor{
		Message: "NVIDIA NIM to OpenAI API Proxy",
		Endpoints: map[string]string{
			"/v1/chat/completions": "POST - Chat completions",
			"/v1/models":           "GET - List models",
			"/health":              "GET - Health check",
		},
	})
}

func (h *Handler) handleV1Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, serviceDescriptor{
		Message: "NVIDIA NIM OpenAI-compatible API",
		Endpoints: map[string]string{
			"/v1/chat/completions": "POST - Chat completions",
			"/v1/models":           "GET - List models",
		},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthStatus{
		Status:  "healthy",
		Service: "nvidia-nim-proxy",
	})
}

func (h *Handler) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
