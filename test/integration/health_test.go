package integration

import (
	"net/http"
	"testing"
)

func TestHealthEndpoint(t *testing.T) {
	resp := getURL(t, testEnv.BaseURL()+"/health")

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	var status struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	decodeJSON(t, resp, &status)

	if status.Status != "healthy" {
		t.Errorf("status = %q, want healthy", status.Status)
	}
	if status.Service != "nvidia-nim-proxy" {
		t.Errorf("service = %q, want nvidia-nim-proxy", status.Service)
	}
}

func TestRootDescribesEndpoints(t *testing.T) {
	resp := getURL(t, testEnv.BaseURL()+"/")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var desc struct {
		Message   string            `json:"message"`
		Endpoints map[string]string `json:"endpoints"`
	}
	decodeJSON(t, resp, &desc)

	for _, path := range []string{"/v1/chat/completions", "/v1/models", "/health"} {
		if _, ok := desc.Endpoints[path]; !ok {
			t.Errorf("endpoint listing missing %q", path)
		}
	}
}

func TestV1RootDescribesAPI(t *testing.T) {
	resp := getURL(t, testEnv.BaseURL()+"/v1")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var desc struct {
		Message string `json:"message"`
	}
	decodeJSON(t, resp, &desc)

	if desc.Message == "" {
		t.Error("empty v1 descriptor message")
	}
}

func TestCORSPreflightAcrossRoutes(t *testing.T) {
	for _, path := range []string{"/v1/chat/completions", "/v1/models", "/health"} {
		req, err := http.NewRequest(http.MethodOptions, testEnv.BaseURL()+path, nil)
		if err != nil {
			t.Fatalf("creating request: %v", err)
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("OPTIONS %s: %v", path, err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("OPTIONS %s = %d, want 204", path, resp.StatusCode)
		}
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("OPTIONS %s Access-Control-Allow-Origin = %q, want *", path, got)
		}
	}
}
