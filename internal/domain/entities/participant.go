package entities

import (
	"time"

	"github.com/google/uuid"
)

// ParticipantRole represents a participant's role in the meeting
type ParticipantRole string

const (
	ParticipantRoleHost     ParticipantRole = "host"
	ParticipantRoleAttendee ParticipantRole = "attendee"
)

// Participant is a meeting attendee, used to give the summarizer
// the names it may attribute action items to.
type Participant struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID uuid.UUID       `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Name      string          `json:"name" gorm:"type:varchar(255);not null"`
	Email     string          `json:"email,omitempty" gorm:"type:varchar(255)"`
	Role      ParticipantRole `json:"role" gorm:"type:varchar(20);not null;default:'attendee'"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Participant) TableName() string {
	return "participants"
}

// NewParticipant creates a new participant
func NewParticipant(meetingID uuid.UUID, name string, role ParticipantRole) *Participant {
	return &Participant{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Name:      name,
		Role:      role,
		CreatedAt: time.Now(),
	}
}
