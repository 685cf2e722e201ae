package entities

import (
	"time"

	"github.com/google/uuid"
)

// TranscriptSource identifies where a transcript came from
type TranscriptSource string

const (
	TranscriptSourceAssemblyAI TranscriptSource = "assemblyai" // Batch transcription of an uploaded recording
	TranscriptSourceUpload     TranscriptSource = "upload"     // Raw text uploaded by a client
	TranscriptSourceAPI        TranscriptSource = "api"        // Created programmatically
)

// Segment represents a contiguous speech segment
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// Transcript is the stored transcript model
type Transcript struct {
	ID              uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID       uuid.UUID        `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Text            string           `json:"text" gorm:"type:text;not null"`
	WordCount       int              `json:"word_count" gorm:"default:0"`
	Language        string           `json:"language,omitempty" gorm:"type:varchar(20)"`
	Source          TranscriptSource `json:"source" gorm:"type:varchar(20);not null;default:'api'"`
	ExternalID      *string          `json:"external_id,omitempty" gorm:"type:varchar(255);index"`
	Segments        []Segment        `json:"segments,omitempty" gorm:"type:jsonb;serializer:json"`
	HasSpeakers     bool             `json:"has_speakers" gorm:"default:false"`
	SpeakerCount    int              `json:"speaker_count,omitempty"`
	ConfidenceScore float64          `json:"confidence_score,omitempty"`
	CreatedAt       time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// NewTranscript creates a new transcript
func NewTranscript(meetingID uuid.UUID, text string, source TranscriptSource) *Transcript {
	return &Transcript{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Text:      text,
		Source:    source,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
