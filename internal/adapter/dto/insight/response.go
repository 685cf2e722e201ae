package insight

import (
	"encoding/json"
	"time"
)

// TemplateResponse represents an insight template in responses
type TemplateResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	PromptBody   string    `json:"prompt_body"`
	OutputSchema string    `json:"output_schema"`
	BuiltIn      bool      `json:"built_in"`
	CreatedAt    time.Time `json:"created_at"`
}

// ResultResponse represents one extracted insight
type ResultResponse struct {
	ID               string          `json:"id"`
	MeetingID        string          `json:"meeting_id"`
	TemplateID       string          `json:"template_id"`
	TemplateName     string          `json:"template_name,omitempty"`
	Content          json.RawMessage `json:"content"`
	ModelUsed        string          `json:"model_used,omitempty"`
	TokensUsed       int             `json:"tokens_used"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
	CreatedAt        time.Time       `json:"created_at"`
}

// BatchExtractResponse represents the outcome of a batch extraction.
// Failed lists the template IDs that produced no result; the call
// succeeds as long as at least one template ran.
type BatchExtractResponse struct {
	Results []*ResultResponse `json:"results"`
	Failed  []string          `json:"failed,omitempty"`
}
