package summary

import (
	"encoding/json"
	"time"
)

// SummaryResponse represents a stored meeting summary. Content is the
// validated summary document exactly as persisted, so the API never
// re-encodes what the engine already checked against the schema.
type SummaryResponse struct {
	ID            string          `json:"id"`
	MeetingID     string          `json:"meeting_id"`
	Content       json.RawMessage `json:"content"`
	ModelUsed     string          `json:"model_used"`
	PromptVersion string          `json:"prompt_version,omitempty"`
	TokensUsed    TokenUsage      `json:"tokens_used"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TokenUsage breaks down model token consumption for a summary
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

// ActionItemResponse represents an extracted action item in responses
type ActionItemResponse struct {
	ID        string     `json:"id"`
	MeetingID string     `json:"meeting_id"`
	Text      string     `json:"text"`
	Assignee  *string    `json:"assignee,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Priority  string     `json:"priority"`
	CreatedAt time.Time  `json:"created_at"`
}

// JobStatusResponse represents the state of a summarization job
type JobStatusResponse struct {
	ID           string     `json:"id"`
	MeetingID    string     `json:"meeting_id"`
	TranscriptID string     `json:"transcript_id"`
	Status       string     `json:"status"`
	Attempts     int        `json:"attempts"`
	MaxAttempts  int        `json:"max_attempts"`
	LastError    *string    `json:"last_error,omitempty"`
	ForceModel   string     `json:"force_model,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
