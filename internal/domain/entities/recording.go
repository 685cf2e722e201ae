package entities

import (
	"time"

	"github.com/google/uuid"
)

// RecordingStatus represents the status of an uploaded recording
type RecordingStatus string

const (
	RecordingStatusUploaded     RecordingStatus = "uploaded"     // Stored, not yet transcribed
	RecordingStatusTranscribing RecordingStatus = "transcribing" // Submitted for batch transcription
	RecordingStatusTranscribed  RecordingStatus = "transcribed"  // Transcript stored
	RecordingStatusFailed       RecordingStatus = "failed"       // Transcription failed
)

// Recording is an uploaded meeting audio file held in object storage.
type Recording struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID   uuid.UUID       `json:"meeting_id" gorm:"type:uuid;not null;index"`
	ObjectKey   string          `json:"object_key" gorm:"type:text;not null"`
	FileName    string          `json:"file_name" gorm:"type:varchar(500)"`
	ContentType string          `json:"content_type" gorm:"type:varchar(100)"`
	SizeBytes   int64           `json:"size_bytes" gorm:"default:0"`
	Status      RecordingStatus `json:"status" gorm:"type:varchar(20);not null;default:'uploaded';index"`
	ExternalID  *string         `json:"external_id,omitempty" gorm:"type:varchar(255);uniqueIndex"`
	Error       *string         `json:"error,omitempty" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Recording) TableName() string {
	return "recordings"
}

// NewRecording creates a new uploaded recording
func NewRecording(meetingID uuid.UUID, objectKey, fileName, contentType string, sizeBytes int64) *Recording {
	return &Recording{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		ObjectKey:   objectKey,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		Status:      RecordingStatusUploaded,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// MarkAsTranscribing records the external transcription job id
func (r *Recording) MarkAsTranscribing(externalID string) {
	r.Status = RecordingStatusTranscribing
	r.ExternalID = &externalID
	r.UpdatedAt = time.Now()
}

// MarkAsTranscribed marks transcription as finished
func (r *Recording) MarkAsTranscribed() {
	r.Status = RecordingStatusTranscribed
	r.UpdatedAt = time.Now()
}

// MarkAsFailed marks transcription as failed
func (r *Recording) MarkAsFailed(errMsg string) {
	r.Status = RecordingStatusFailed
	r.Error = &errMsg
	r.UpdatedAt = time.Now()
}
