package ai

import (
	"context"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/meetingflow-team/meetingflow/pkg/llm"
)

// generateState is the phase of one GenerateWithFallback run. Transitions:
// attempting -> retrying (retryable error, attempts left) -> attempting;
// attempting -> fallback (non-retryable error or attempts exhausted);
// fallback -> succeeded | failed. The fallback state runs at most once and
// never retries.
type generateState int

const (
	stateAttempting generateState = iota
	stateRetrying
	stateFallback
	stateSucceeded
	stateFailed
)

// linearBackOff waits base×attempt between primary attempts: with the
// default 2s base that is 2s, 4s, 6s.
type linearBackOff struct {
	base    time.Duration
	attempt int
}

var _ backoff.BackOff = (*linearBackOff)(nil)

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return b.base * time.Duration(b.attempt)
}

func (b *linearBackOff) Reset() {
	b.attempt = 0
}

// GenerateOptions carries the per-call knobs for GenerateWithFallback.
// Override pins the provider and disables the fallback.
type GenerateOptions struct {
	Override     llm.Provider
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
	JSONMode     bool
}

// GenerateResult pairs a completion with the selection that actually
// produced it, which is the fallback selection when the primary failed.
type GenerateResult struct {
	Completion *llm.CompletionResult
	Selection  llm.ModelSelection
}

// Generator runs completion calls through bounded linear retry and a
// single cross-provider fallback.
type Generator struct {
	selector   *Selector
	registry   *llm.Registry
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewGenerator creates a generator. maxRetries bounds primary attempts;
// retryDelay is the linear backoff base.
func NewGenerator(selector *Selector, registry *llm.Registry, maxRetries int, retryDelay time.Duration, logger *zap.Logger) *Generator {
	return &Generator{
		selector:   selector,
		registry:   registry,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
		sleep:      sleepContext,
	}
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GenerateWithFallback selects a provider for wordCount, attempts the
// completion up to maxRetries times with linear backoff, and on primary
// failure makes exactly one attempt against the other provider. Retries
// happen only for retryable errors; the fallback fires for any primary
// failure but is skipped when an override pinned the provider or the
// other provider is not configured.
func (g *Generator) GenerateWithFallback(ctx context.Context, prompt string, wordCount int, opts GenerateOptions) (*GenerateResult, error) {
	primary, err := g.selector.Select(wordCount, opts.Override)
	if err != nil {
		return nil, err
	}

	var (
		state     = stateAttempting
		attempt   = 0
		bo        = &linearBackOff{base: g.retryDelay}
		selection = primary
		result    *llm.CompletionResult
		lastErr   error
	)

	for state != stateSucceeded && state != stateFailed {
		switch state {
		case stateAttempting:
			attempt++
			completion, err := g.complete(ctx, selection, prompt, opts)
			if err == nil {
				result = completion
				state = stateSucceeded
				break
			}
			lastErr = err
			if g.logger != nil {
				g.logger.Warn("❌ Completion attempt failed",
					zap.String("provider", selection.Provider.String()),
					zap.String("model", selection.Model),
					zap.Int("attempt", attempt),
					zap.Int("max_retries", g.maxRetries),
					zap.Bool("retryable", llm.IsRetryable(err)),
					zap.Error(err),
				)
			}
			if llm.IsRetryable(err) && attempt < g.maxRetries {
				state = stateRetrying
			} else {
				state = stateFallback
			}

		case stateRetrying:
			if err := g.sleep(ctx, bo.NextBackOff()); err != nil {
				lastErr = err
				state = stateFailed
				break
			}
			state = stateAttempting

		case stateFallback:
			fallback, ok := g.fallbackSelection(primary, opts)
			if !ok {
				state = stateFailed
				break
			}
			if g.logger != nil {
				g.logger.Info("🔄 Falling back to secondary provider",
					zap.String("from", primary.Provider.String()),
					zap.String("to", fallback.Provider.String()),
					zap.Error(lastErr),
				)
			}
			completion, err := g.complete(ctx, fallback, prompt, opts)
			if err == nil {
				selection = fallback
				result = completion
				state = stateSucceeded
				break
			}
			lastErr = err
			state = stateFailed
		}
	}

	if state == stateFailed {
		return nil, lastErr
	}
	return &GenerateResult{Completion: result, Selection: selection}, nil
}

// fallbackSelection returns the single permitted fallback, or ok=false
// when an override pinned the provider or no counterpart is configured.
func (g *Generator) fallbackSelection(primary llm.ModelSelection, opts GenerateOptions) (llm.ModelSelection, bool) {
	if opts.Override != "" {
		return llm.ModelSelection{}, false
	}
	return g.selector.FallbackFor(primary.Provider)
}

func (g *Generator) complete(ctx context.Context, sel llm.ModelSelection, prompt string, opts GenerateOptions) (*llm.CompletionResult, error) {
	client, ok := g.registry.Get(sel.Provider)
	if !ok {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("provider %q is not configured", sel.Provider)}
	}
	return client.Complete(ctx, llm.CompletionRequest{
		Model:        sel.Model,
		Prompt:       prompt,
		SystemPrompt: opts.SystemPrompt,
		MaxTokens:    opts.MaxTokens,
		Temperature:  opts.Temperature,
		JSONMode:     opts.JSONMode,
	})
}
