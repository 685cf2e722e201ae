package ai

import (
	"errors"
	"testing"

	"github.com/meetingflow-team/meetingflow/pkg/llm"
)

var testModels = map[llm.Provider]string{
	llm.ProviderAnthropic: "claude-sonnet-4-5-20250929",
	llm.ProviderOpenAI:    "gpt-4o-mini",
}

func bothProviders() *llm.Registry {
	return llm.NewRegistry(
		&fakeClient{provider: llm.ProviderAnthropic},
		&fakeClient{provider: llm.ProviderOpenAI},
	)
}

func TestSelectByWordCount(t *testing.T) {
	s := NewSelector(bothProviders(), 5000, testModels)

	cases := []struct {
		words int
		want  llm.Provider
	}{
		{100, llm.ProviderOpenAI},
		{4999, llm.ProviderOpenAI},
		{5000, llm.ProviderAnthropic},
		{9000, llm.ProviderAnthropic},
	}
	for _, tc := range cases {
		sel, err := s.Select(tc.words, "")
		if err != nil {
			t.Fatalf("Select(%d): %v", tc.words, err)
		}
		if sel.Provider != tc.want {
			t.Errorf("Select(%d) picked %s, want %s", tc.words, sel.Provider, tc.want)
		}
		if sel.Model != testModels[tc.want] {
			t.Errorf("Select(%d) model = %q, want %q", tc.words, sel.Model, testModels[tc.want])
		}
		if sel.Reason == "" {
			t.Errorf("Select(%d) recorded no reason", tc.words)
		}
	}
}

func TestSelectOverride(t *testing.T) {
	s := NewSelector(bothProviders(), 5000, testModels)

	sel, err := s.Select(100, llm.ProviderAnthropic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Provider != llm.ProviderAnthropic {
		t.Errorf("override ignored, picked %s", sel.Provider)
	}
	if sel.Reason != reasonUserRequested {
		t.Errorf("reason = %q, want %q", sel.Reason, reasonUserRequested)
	}
}

func TestSelectOverrideUnconfigured(t *testing.T) {
	registry := llm.NewRegistry(&fakeClient{provider: llm.ProviderOpenAI})
	s := NewSelector(registry, 5000, testModels)

	_, err := s.Select(100, llm.ProviderAnthropic)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestSelectSingleProvider(t *testing.T) {
	registry := llm.NewRegistry(&fakeClient{provider: llm.ProviderOpenAI})
	s := NewSelector(registry, 5000, testModels)

	// Even a long transcript rides the only configured provider.
	sel, err := s.Select(20000, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Provider != llm.ProviderOpenAI {
		t.Errorf("picked %s, want openai", sel.Provider)
	}
}

func TestSelectNoProviders(t *testing.T) {
	s := NewSelector(llm.NewRegistry(), 5000, testModels)
	_, err := s.Select(100, "")
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestFallbackFor(t *testing.T) {
	s := NewSelector(bothProviders(), 5000, testModels)

	sel, ok := s.FallbackFor(llm.ProviderAnthropic)
	if !ok || sel.Provider != llm.ProviderOpenAI {
		t.Fatalf("expected openai fallback, got %+v ok=%v", sel, ok)
	}
	if sel.Reason != reasonFallback {
		t.Errorf("reason = %q, want %q", sel.Reason, reasonFallback)
	}

	sel, ok = s.FallbackFor(llm.ProviderOpenAI)
	if !ok || sel.Provider != llm.ProviderAnthropic {
		t.Fatalf("expected anthropic fallback, got %+v ok=%v", sel, ok)
	}
}

func TestFallbackForWithoutCounterpart(t *testing.T) {
	registry := llm.NewRegistry(&fakeClient{provider: llm.ProviderAnthropic})
	s := NewSelector(registry, 5000, testModels)

	if _, ok := s.FallbackFor(llm.ProviderAnthropic); ok {
		t.Fatalf("no counterpart configured, fallback must not be offered")
	}
}
