package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient adapts the Anthropic Messages API to the Client
// interface. It serves the quality tier.
type AnthropicClient struct {
	client anthropic.Client
	model  string
}

// NewAnthropicClient creates an Anthropic-backed client. model is the
// default used when a request carries no model of its own. Extra request
// options (base URL overrides in tests) are passed through to the SDK.
// SDK retries stay disabled, the generator owns retry policy.
func NewAnthropicClient(apiKey, model string, opts ...option.RequestOption) *AnthropicClient {
	options := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	return &AnthropicClient{
		client: anthropic.NewClient(options...),
		model:  model,
	}
}

// Provider implements Client.
func (c *AnthropicClient) Provider() Provider {
	return ProviderAnthropic
}

// Complete implements Client.
func (c *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(req.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, NewAPIError(ProviderAnthropic, apiErr.StatusCode, apiErr.Error())
		}
		return nil, NewTransportError(ProviderAnthropic, err)
	}

	var content strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	if content.Len() == 0 {
		return nil, fmt.Errorf("no text content in anthropic response")
	}

	usage := TokenUsage{
		Input:  int(message.Usage.InputTokens),
		Output: int(message.Usage.OutputTokens),
	}
	usage.Total = usage.Input + usage.Output

	return &CompletionResult{
		Content:      content.String(),
		TokensUsed:   usage,
		Model:        model,
		FinishReason: string(message.StopReason),
	}, nil
}
