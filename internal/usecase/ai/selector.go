package ai

import (
	"fmt"

	"github.com/meetingflow-team/meetingflow/pkg/llm"
)

// Selection reason strings recorded for provenance.
const (
	reasonUserRequested = "user requested"
	reasonFallback      = "fallback after primary failure"
)

// Selector routes completion calls to a provider. Anthropic is the
// quality tier for long transcripts, OpenAI the cost tier for everything
// else.
type Selector struct {
	registry  *llm.Registry
	quality   llm.Provider
	cost      llm.Provider
	threshold int
	models    map[llm.Provider]string
}

// NewSelector creates a selector over the configured registry. threshold
// is the word count at which jobs move to the quality tier; models maps
// each provider to its configured default model.
func NewSelector(registry *llm.Registry, threshold int, models map[llm.Provider]string) *Selector {
	return &Selector{
		registry:  registry,
		quality:   llm.ProviderAnthropic,
		cost:      llm.ProviderOpenAI,
		threshold: threshold,
		models:    models,
	}
}

// Select picks the provider and model for a call. wordCount is always the
// full transcript's count, including for per-chunk calls; every call in a
// job rides the same tier. An override pins the provider regardless of
// size.
func (s *Selector) Select(wordCount int, override llm.Provider) (llm.ModelSelection, error) {
	if override != "" {
		if !s.registry.Has(override) {
			return llm.ModelSelection{}, &ConfigurationError{
				Reason: fmt.Sprintf("requested provider %q is not configured", override),
			}
		}
		return llm.ModelSelection{
			Provider: override,
			Model:    s.models[override],
			Reason:   reasonUserRequested,
		}, nil
	}

	hasQuality := s.registry.Has(s.quality)
	hasCost := s.registry.Has(s.cost)

	switch {
	case !hasQuality && !hasCost:
		return llm.ModelSelection{}, &ConfigurationError{Reason: "no LLM provider configured"}
	case hasQuality && !hasCost:
		return llm.ModelSelection{
			Provider: s.quality,
			Model:    s.models[s.quality],
			Reason:   fmt.Sprintf("only %s configured", s.quality),
		}, nil
	case hasCost && !hasQuality:
		return llm.ModelSelection{
			Provider: s.cost,
			Model:    s.models[s.cost],
			Reason:   fmt.Sprintf("only %s configured", s.cost),
		}, nil
	}

	// Both configured: the threshold is inclusive on the high side.
	if wordCount >= s.threshold {
		return llm.ModelSelection{
			Provider: s.quality,
			Model:    s.models[s.quality],
			Reason:   fmt.Sprintf("%d words >= threshold %d", wordCount, s.threshold),
		}, nil
	}
	return llm.ModelSelection{
		Provider: s.cost,
		Model:    s.models[s.cost],
		Reason:   fmt.Sprintf("%d words < threshold %d", wordCount, s.threshold),
	}, nil
}

// FallbackFor returns the other member of the quality/cost pair, or
// ok=false when the primary has no configured counterpart.
func (s *Selector) FallbackFor(primary llm.Provider) (llm.ModelSelection, bool) {
	var other llm.Provider
	switch primary {
	case s.quality:
		other = s.cost
	case s.cost:
		other = s.quality
	default:
		return llm.ModelSelection{}, false
	}
	if !s.registry.Has(other) {
		return llm.ModelSelection{}, false
	}
	return llm.ModelSelection{
		Provider: other,
		Model:    s.models[other],
		Reason:   reasonFallback,
	}, true
}
