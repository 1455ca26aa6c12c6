package azure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"shelfvision-backend/internal/llm"
)

func newTestClient(t *testing.T, captured *map[string]any) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		*captured = body
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"location_query"}}],"usage":{"prompt_tokens":12,"completion_tokens":2,"total_tokens":14}}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "test-key", "", "gpt-4o")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestCompleteKeepsZeroTemperatureOnWire(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, &body)

	out, err := client.Complete(context.Background(), llm.Request{
		System:      "classify",
		User:        "Where is the Tide?",
		MaxTokens:   10,
		Temperature: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "location_query" {
		t.Fatalf("out = %q", out)
	}

	temp, ok := body["temperature"].(float64)
	if !ok {
		t.Fatalf("temperature missing from wire request: %v", body)
	}
	if temp < 0 || temp > 1e-30 {
		t.Fatalf("temperature = %v, want a near-zero value", temp)
	}
}

func TestCompletePassesNonZeroSamplingParams(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, &body)

	if _, err := client.Complete(context.Background(), llm.Request{
		System:      "summarize",
		User:        "evidence",
		MaxTokens:   512,
		Temperature: 0.3,
		TopP:        1.0,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if temp, _ := body["temperature"].(float64); temp < 0.29 || temp > 0.31 {
		t.Fatalf("temperature = %v, want 0.3", body["temperature"])
	}
	if topP, _ := body["top_p"].(float64); topP != 1.0 {
		t.Fatalf("top_p = %v, want 1", body["top_p"])
	}
	if maxTokens, _ := body["max_tokens"].(float64); maxTokens != 512 {
		t.Fatalf("max_tokens = %v, want 512", body["max_tokens"])
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "", "", "gpt-4o"); err != llm.ErrMissingCredentials {
		t.Fatalf("err = %v, want missing credentials", err)
	}
	if _, err := NewClient("https://example.openai.azure.com", "key", "", ""); err == nil {
		t.Fatal("expected error for missing deployment name")
	}
}
