package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient adapts the OpenAI chat completions API to the Client
// interface. It serves the cost tier.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates an OpenAI-backed client. model is the default
// used when a request carries no model of its own. baseURL overrides the
// public endpoint for compatible gateways and tests; empty keeps the SDK
// default. SDK retries stay disabled, the generator owns retry policy.
func NewOpenAIClient(apiKey, model, baseURL string, timeout time.Duration) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Provider implements Client.
func (c *OpenAIClient) Provider() Provider {
	return ProviderOpenAI
}

// Complete implements Client.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, NewAPIError(ProviderOpenAI, apiErr.StatusCode, apiErr.Error())
		}
		return nil, NewTransportError(ProviderOpenAI, err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no choices in openai response")
	}
	choice := completion.Choices[0]

	usage := TokenUsage{
		Input:  int(completion.Usage.PromptTokens),
		Output: int(completion.Usage.CompletionTokens),
		Total:  int(completion.Usage.TotalTokens),
	}
	if usage.Total == 0 {
		usage.Total = usage.Input + usage.Output
	}

	resultModel := completion.Model
	if resultModel == "" {
		resultModel = model
	}

	return &CompletionResult{
		Content:      choice.Message.Content,
		TokensUsed:   usage,
		Model:        resultModel,
		FinishReason: string(choice.FinishReason),
	}, nil
}
