package llm

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// String returns the provider id as a plain string.
func (p Provider) String() string {
	return string(p)
}

// ParseProvider converts a string into a known provider id.
func ParseProvider(s string) (Provider, bool) {
	switch Provider(s) {
	case ProviderAnthropic, ProviderOpenAI:
		return Provider(s), true
	}
	return "", false
}

// TokenUsage tracks token consumption for one or more completion calls.
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

// Add accumulates another call's usage into u.
func (u *TokenUsage) Add(other TokenUsage) {
	u.Input += other.Input
	u.Output += other.Output
	u.Total += other.Total
}

// CompletionRequest is a normalized completion call. Model is filled in by
// the caller from its ModelSelection; an empty Model falls back to the
// client's configured default.
type CompletionRequest struct {
	Model        string
	Prompt       string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
	JSONMode     bool
}

// CompletionResult is the normalized response from any provider.
type CompletionResult struct {
	Content      string     `json:"content"`
	TokensUsed   TokenUsage `json:"tokens_used"`
	Model        string     `json:"model"`
	FinishReason string     `json:"finish_reason"`
}

// ModelSelection records which provider and model were chosen for a call
// and why. Kept alongside results for provenance.
type ModelSelection struct {
	Provider Provider `json:"provider"`
	Model    string   `json:"model"`
	Reason   string   `json:"reason"`
}
