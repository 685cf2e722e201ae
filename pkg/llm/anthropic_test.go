package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
)

func TestAnthropicComplete_Success(t *testing.T) {
	// Mock Anthropic messages endpoint
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload["model"] != "claude-sonnet-4-5-20250929" {
			t.Fatalf("unexpected model %v", payload["model"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]string{
				{"type": "text", "text": `{"executiveSummary":"done"}`},
			},
			"model":       "claude-sonnet-4-5-20250929",
			"stop_reason": "end_turn",
			"usage": map[string]int{
				"input_tokens":  200,
				"output_tokens": 80,
			},
		})
	}))
	defer ts.Close()

	client := NewAnthropicClient("test-key", "claude-sonnet-4-5-20250929",
		option.WithBaseURL(ts.URL), option.WithMaxRetries(0))

	result, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:       "summarize this",
		SystemPrompt: "you are a summarizer",
		MaxTokens:    1024,
		Temperature:  0.2,
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if result.Content != `{"executiveSummary":"done"}` {
		t.Fatalf("unexpected content %q", result.Content)
	}
	if result.TokensUsed.Input != 200 || result.TokensUsed.Output != 80 || result.TokensUsed.Total != 280 {
		t.Fatalf("unexpected usage %+v", result.TokensUsed)
	}
	if result.FinishReason != "end_turn" {
		t.Fatalf("unexpected finish reason %q", result.FinishReason)
	}
	if client.Provider() != ProviderAnthropic {
		t.Fatalf("unexpected provider %s", client.Provider())
	}
}

func TestAnthropicComplete_Overloaded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"type":  "error",
			"error": map[string]string{"type": "overloaded_error", "message": "overloaded"},
		})
	}))
	defer ts.Close()

	client := NewAnthropicClient("test-key", "claude-sonnet-4-5-20250929",
		option.WithBaseURL(ts.URL), option.WithMaxRetries(0))

	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "hi", MaxTokens: 16})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Provider != ProviderAnthropic {
		t.Fatalf("unexpected provider %s", apiErr.Provider)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status %d", apiErr.StatusCode)
	}
	if !apiErr.Retryable {
		t.Fatal("503 should be retryable")
	}
}

func TestAnthropicComplete_InvalidKey(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"type":  "error",
			"error": map[string]string{"type": "authentication_error", "message": "invalid x-api-key"},
		})
	}))
	defer ts.Close()

	client := NewAnthropicClient("bad-key", "claude-sonnet-4-5-20250929",
		option.WithBaseURL(ts.URL), option.WithMaxRetries(0))

	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "hi", MaxTokens: 16})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Retryable {
		t.Fatal("401 should not be retryable")
	}
}
