package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/meetingflow-team/meetingflow/pkg/llm"
)

// fakeClient is a scripted llm.Client. Each call pops the next scripted
// response; an exhausted script answers with a trivial success.
type fakeClient struct {
	provider llm.Provider
	script   []fakeResponse
	calls    []llm.CompletionRequest
}

type fakeResponse struct {
	result *llm.CompletionResult
	err    error
}

func (f *fakeClient) Provider() llm.Provider { return f.provider }

func (f *fakeClient) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResult, error) {
	f.calls = append(f.calls, req)
	if len(f.script) == 0 {
		return textResult("{}", 2), nil
	}
	next := f.script[0]
	f.script = f.script[1:]
	if next.err != nil {
		return nil, next.err
	}
	return next.result, nil
}

func textResult(content string, totalTokens int) *llm.CompletionResult {
	return &llm.CompletionResult{
		Content:      content,
		TokensUsed:   llm.TokenUsage{Input: totalTokens / 2, Output: totalTokens - totalTokens/2, Total: totalTokens},
		Model:        "scripted-model",
		FinishReason: "stop",
	}
}

func repeatErr(err error, n int) []fakeResponse {
	script := make([]fakeResponse, n)
	for i := range script {
		script[i] = fakeResponse{err: err}
	}
	return script
}

// newTestGenerator wires a generator over fake clients with a recording
// sleep so tests assert backoff without waiting.
func newTestGenerator(clients []llm.Client, maxRetries int) (*Generator, *[]time.Duration) {
	registry := llm.NewRegistry(clients...)
	selector := NewSelector(registry, 5000, testModels)
	g := NewGenerator(selector, registry, maxRetries, 10*time.Millisecond, nil)

	slept := &[]time.Duration{}
	g.sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return g, slept
}

func TestGenerateSuccessFirstAttempt(t *testing.T) {
	anthropic := &fakeClient{provider: llm.ProviderAnthropic, script: []fakeResponse{{result: textResult(`{"ok":true}`, 50)}}}
	openai := &fakeClient{provider: llm.ProviderOpenAI}
	g, slept := newTestGenerator([]llm.Client{anthropic, openai}, 3)

	res, err := g.GenerateWithFallback(context.Background(), "summarize this", 9000, GenerateOptions{
		SystemPrompt: "be terse",
		MaxTokens:    1024,
		Temperature:  0.2,
		JSONMode:     true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Selection.Provider != llm.ProviderAnthropic {
		t.Errorf("9000 words should ride the quality tier, got %s", res.Selection.Provider)
	}
	if res.Completion.Content != `{"ok":true}` {
		t.Errorf("unexpected content %q", res.Completion.Content)
	}
	if len(anthropic.calls) != 1 || len(openai.calls) != 0 {
		t.Errorf("expected exactly one primary call, got %d/%d", len(anthropic.calls), len(openai.calls))
	}
	if len(*slept) != 0 {
		t.Errorf("no backoff expected on first-attempt success, slept %v", *slept)
	}

	req := anthropic.calls[0]
	if req.Model != testModels[llm.ProviderAnthropic] {
		t.Errorf("request model = %q, want the selected model", req.Model)
	}
	if req.SystemPrompt != "be terse" || req.MaxTokens != 1024 || !req.JSONMode {
		t.Errorf("options not forwarded: %+v", req)
	}
}

func TestGenerateRetriesThenFallsBack(t *testing.T) {
	overloaded := llm.NewAPIError(llm.ProviderAnthropic, 503, "overloaded")
	anthropic := &fakeClient{provider: llm.ProviderAnthropic, script: repeatErr(overloaded, 3)}
	openai := &fakeClient{provider: llm.ProviderOpenAI, script: []fakeResponse{{result: textResult(`{"ok":true}`, 10)}}}
	g, slept := newTestGenerator([]llm.Client{anthropic, openai}, 3)

	res, err := g.GenerateWithFallback(context.Background(), "p", 9000, GenerateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(anthropic.calls) != 3 {
		t.Errorf("expected 3 primary attempts, got %d", len(anthropic.calls))
	}
	if len(openai.calls) != 1 {
		t.Errorf("expected exactly one fallback attempt, got %d", len(openai.calls))
	}
	if res.Selection.Provider != llm.ProviderOpenAI || res.Selection.Reason != reasonFallback {
		t.Errorf("result must carry fallback provenance, got %+v", res.Selection)
	}

	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}
	if len(*slept) != len(want) {
		t.Fatalf("slept %v, want %v", *slept, want)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Errorf("backoff %d = %v, want %v", i, (*slept)[i], d)
		}
	}
}

func TestGenerateNonRetryableSkipsRetries(t *testing.T) {
	badRequest := llm.NewAPIError(llm.ProviderAnthropic, 400, "invalid request")
	anthropic := &fakeClient{provider: llm.ProviderAnthropic, script: repeatErr(badRequest, 1)}
	openai := &fakeClient{provider: llm.ProviderOpenAI, script: []fakeResponse{{result: textResult(`{"ok":true}`, 10)}}}
	g, slept := newTestGenerator([]llm.Client{anthropic, openai}, 3)

	res, err := g.GenerateWithFallback(context.Background(), "p", 9000, GenerateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(anthropic.calls) != 1 {
		t.Errorf("non-retryable errors must not be retried, got %d attempts", len(anthropic.calls))
	}
	if len(*slept) != 0 {
		t.Errorf("no backoff expected, slept %v", *slept)
	}
	if res.Selection.Provider != llm.ProviderOpenAI {
		t.Errorf("expected fallback result, got %+v", res.Selection)
	}
}

func TestGenerateFallbackGetsNoRetries(t *testing.T) {
	overloaded := llm.NewAPIError(llm.ProviderAnthropic, 503, "overloaded")
	rateLimited := llm.NewAPIError(llm.ProviderOpenAI, 429, "rate limit reached")
	anthropic := &fakeClient{provider: llm.ProviderAnthropic, script: repeatErr(overloaded, 3)}
	openai := &fakeClient{provider: llm.ProviderOpenAI, script: repeatErr(rateLimited, 2)}
	g, _ := newTestGenerator([]llm.Client{anthropic, openai}, 3)

	_, err := g.GenerateWithFallback(context.Background(), "p", 9000, GenerateOptions{})
	if err == nil {
		t.Fatalf("expected failure when both providers fail")
	}
	if len(openai.calls) != 1 {
		t.Errorf("fallback is a single attempt even for retryable errors, got %d", len(openai.calls))
	}
	var apiErr *llm.APIError
	if !errors.As(err, &apiErr) || apiErr.Provider != llm.ProviderOpenAI {
		t.Errorf("final error should be the fallback's, got %v", err)
	}
}

func TestGenerateOverridePinsProvider(t *testing.T) {
	badRequest := llm.NewAPIError(llm.ProviderOpenAI, 400, "invalid request")
	anthropic := &fakeClient{provider: llm.ProviderAnthropic}
	openai := &fakeClient{provider: llm.ProviderOpenAI, script: repeatErr(badRequest, 1)}
	g, _ := newTestGenerator([]llm.Client{anthropic, openai}, 3)

	_, err := g.GenerateWithFallback(context.Background(), "p", 9000, GenerateOptions{Override: llm.ProviderOpenAI})
	if err == nil {
		t.Fatalf("expected the pinned provider's failure to surface")
	}
	if len(anthropic.calls) != 0 {
		t.Errorf("an override must disable the fallback, anthropic got %d calls", len(anthropic.calls))
	}
	if len(openai.calls) != 1 {
		t.Errorf("expected one pinned attempt, got %d", len(openai.calls))
	}
}

func TestGenerateSingleProviderExhaustsRetries(t *testing.T) {
	overloaded := llm.NewAPIError(llm.ProviderAnthropic, 503, "overloaded")
	anthropic := &fakeClient{provider: llm.ProviderAnthropic, script: repeatErr(overloaded, 3)}
	g, _ := newTestGenerator([]llm.Client{anthropic}, 3)

	_, err := g.GenerateWithFallback(context.Background(), "p", 9000, GenerateOptions{})
	if err == nil {
		t.Fatalf("expected failure with no fallback available")
	}
	if len(anthropic.calls) != 3 {
		t.Errorf("expected 3 attempts, got %d", len(anthropic.calls))
	}
	var apiErr *llm.APIError
	if !errors.As(err, &apiErr) || apiErr.Provider != llm.ProviderAnthropic {
		t.Errorf("final error should be the primary's, got %v", err)
	}
}

func TestGenerateCanceledDuringBackoff(t *testing.T) {
	overloaded := llm.NewAPIError(llm.ProviderAnthropic, 503, "overloaded")
	anthropic := &fakeClient{provider: llm.ProviderAnthropic, script: repeatErr(overloaded, 3)}
	g, _ := newTestGenerator([]llm.Client{anthropic}, 3)
	g.sleep = func(_ context.Context, _ time.Duration) error {
		return context.Canceled
	}

	_, err := g.GenerateWithFallback(context.Background(), "p", 9000, GenerateOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(anthropic.calls) != 1 {
		t.Errorf("cancellation during backoff must stop further attempts, got %d", len(anthropic.calls))
	}
}

func TestLinearBackOff(t *testing.T) {
	bo := &linearBackOff{base: 100 * time.Millisecond}
	for i, want := range []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond} {
		if got := bo.NextBackOff(); got != want {
			t.Errorf("step %d = %v, want %v", i, got, want)
		}
	}
	bo.Reset()
	if got := bo.NextBackOff(); got != 100*time.Millisecond {
		t.Errorf("after reset = %v, want base", got)
	}
}
