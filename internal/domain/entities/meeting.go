package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingStatus represents the summarization status of a meeting
type MeetingStatus string

const (
	MeetingStatusPending    MeetingStatus = "pending"    // No summarization requested yet
	MeetingStatusProcessing MeetingStatus = "processing" // Summarization job in flight
	MeetingStatusCompleted  MeetingStatus = "completed"  // Summary stored
	MeetingStatusFailed     MeetingStatus = "failed"     // Last summarization attempt failed
)

// Meeting is the anchor entity: one meeting, one transcript, one summary.
type Meeting struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title           string         `json:"title" gorm:"type:varchar(500);not null"`
	DurationSeconds int            `json:"duration_seconds,omitempty" gorm:"default:0"`
	ScheduledAt     *time.Time     `json:"scheduled_at,omitempty"`
	Status          MeetingStatus  `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	StatusMetadata  datatypes.JSON `json:"status_metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a new meeting
func NewMeeting(title string) *Meeting {
	return &Meeting{
		ID:        uuid.New(),
		Title:     title,
		Status:    MeetingStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// MarkAsProcessing marks the meeting as being summarized
func (m *Meeting) MarkAsProcessing() {
	m.Status = MeetingStatusProcessing
	m.UpdatedAt = time.Now()
}

// MarkAsCompleted marks the meeting summary as stored
func (m *Meeting) MarkAsCompleted() {
	m.Status = MeetingStatusCompleted
	m.UpdatedAt = time.Now()
}

// MarkAsFailed marks the meeting as failed
func (m *Meeting) MarkAsFailed() {
	m.Status = MeetingStatusFailed
	m.UpdatedAt = time.Now()
}
