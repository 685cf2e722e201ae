package meeting

import (
	"encoding/json"
	"time"
)

// MeetingResponse represents a meeting in responses
type MeetingResponse struct {
	ID              string                 `json:"id"`
	Title           string                 `json:"title"`
	DurationSeconds int                    `json:"duration_seconds,omitempty"`
	ScheduledAt     *time.Time             `json:"scheduled_at,omitempty"`
	Status          string                 `json:"status"`
	StatusMetadata  json.RawMessage        `json:"status_metadata,omitempty"`
	Participants    []*ParticipantResponse `json:"participants,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// ParticipantResponse represents a participant in responses
type ParticipantResponse struct {
	ID        string    `json:"id"`
	MeetingID string    `json:"meeting_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TranscriptResponse represents a stored transcript. The raw text is
// omitted unless the caller asked for it; transcripts routinely run to
// tens of thousands of words.
type TranscriptResponse struct {
	ID           string    `json:"id"`
	MeetingID    string    `json:"meeting_id"`
	Text         string    `json:"text,omitempty"`
	WordCount    int       `json:"word_count"`
	Language     string    `json:"language,omitempty"`
	Source       string    `json:"source"`
	HasSpeakers  bool      `json:"has_speakers"`
	SpeakerCount int       `json:"speaker_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
