package recording

import "time"

// RecordingResponse represents an uploaded audio recording
type RecordingResponse struct {
	ID          string    `json:"id"`
	MeetingID   string    `json:"meeting_id"`
	FileName    string    `json:"file_name,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	Status      string    `json:"status"`
	ExternalID  *string   `json:"external_id,omitempty"`
	Error       *string   `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
