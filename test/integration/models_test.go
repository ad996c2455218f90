package integration

import (
	"net/http"
	"testing"
	"time"
)

func TestListModels(t *testing.T) {
	resp := getURL(t, testEnv.BaseURL()+"/v1/models")

	if resp.StatusCode != http.StatusOK {
		body := readBody(t, resp)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var listing struct {
		Object string `json:"object"`
		Data   []struct {
			ID      string `json:"id"`
			OwnedBy string `json:"owned_by"`
		} `json:"data"`
	}
	decodeJSON(t, resp, &listing)

	if listing.Object != "list" {
		t.Errorf("object = %q, want list", listing.Object)
	}
	if len(listing.Data) != 2 {
		t.Fatalf("got %d models, want the 2 backend models", len(listing.Data))
	}
	if listing.Data[1].ID != "mock/test-model" {
		t.Errorf("model[1] = %q, want the backend listing verbatim", listing.Data[1].ID)
	}
}

func TestListModelsFallbackWhenBackendDown(t *testing.T) {
	testEnv.modelsDown.Store(true)
	defer testEnv.modelsDown.Store(false)

	before := time.Now().Unix()
	resp := getURL(t, testEnv.BaseURL()+"/v1/models")
	after := time.Now().Unix()

	// Backend failures are masked: the static listing is served with 200.
	if resp.StatusCode != http.StatusOK {
		body := readBody(t, resp)
		t.Fatalf("expected 200 fallback, got %d: %s", resp.StatusCode, body)
	}

	var listing struct {
		Object string `json:"object"`
		Data   []struct {
			ID      string `json:"id"`
			Object  string `json:"object"`
			Created int64  `json:"created"`
			OwnedBy string `json:"owned_by"`
		} `json:"data"`
	}
	decodeJSON(t, resp, &listing)

	if listing.Object != "list" || len(listing.Data) != 2 {
		t.Fatalf("fallback listing = %+v", listing)
	}
	wantIDs := []string{"meta/llama-3.1-70b-instruct", "deepseek-ai/deepseek-r1"}
	for i, m := range listing.Data {
		if m.ID != wantIDs[i] {
			t.Errorf("model[%d] = %q, want %q", i, m.ID, wantIDs[i])
		}
		if m.OwnedBy != "nvidia" {
			t.Errorf("model[%d].OwnedBy = %q, want nvidia", i, m.OwnedBy)
		}
		if m.Created < before || m.Created > after {
			t.Errorf("model[%d].Created = %d, want a current timestamp", i, m.Created)
		}
	}
}
