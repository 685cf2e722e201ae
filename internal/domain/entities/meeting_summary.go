package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingSummary is the stored summary record. Content holds the full
// structured SummaryOutput as JSONB; one row per meeting, replaced on
// regeneration.
type MeetingSummary struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID     uuid.UUID      `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`
	Content       datatypes.JSON `json:"content" gorm:"type:jsonb;not null"`
	ModelUsed     string         `json:"model_used" gorm:"type:varchar(100)"`
	PromptVersion string         `json:"prompt_version" gorm:"type:varchar(50)"`
	InputTokens   int            `json:"input_tokens" gorm:"default:0"`
	OutputTokens  int            `json:"output_tokens" gorm:"default:0"`
	TotalTokens   int            `json:"total_tokens" gorm:"default:0"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (MeetingSummary) TableName() string {
	return "meeting_summaries"
}

// NewMeetingSummary creates a new summary record from a validated output.
func NewMeetingSummary(meetingID uuid.UUID, output *SummaryOutput, modelUsed, promptVersion string) (*MeetingSummary, error) {
	content, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary content: %w", err)
	}
	return &MeetingSummary{
		ID:            uuid.New(),
		MeetingID:     meetingID,
		Content:       content,
		ModelUsed:     modelUsed,
		PromptVersion: promptVersion,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}, nil
}

// DecodeContent unmarshals the stored JSONB content back into a SummaryOutput.
func (s *MeetingSummary) DecodeContent() (*SummaryOutput, error) {
	var output SummaryOutput
	if err := json.Unmarshal(s.Content, &output); err != nil {
		return nil, fmt.Errorf("failed to decode summary content: %w", err)
	}
	return &output, nil
}
