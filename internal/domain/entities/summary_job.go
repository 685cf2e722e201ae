package entities

import (
	"time"

	"github.com/google/uuid"
)

// SummaryJobStatus represents the status of a summarization job
type SummaryJobStatus string

const (
	SummaryJobStatusQueued    SummaryJobStatus = "queued"    // Waiting on the queue
	SummaryJobStatusRunning   SummaryJobStatus = "running"   // Claimed by a worker
	SummaryJobStatusCompleted SummaryJobStatus = "completed" // Summary stored
	SummaryJobStatusFailed    SummaryJobStatus = "failed"    // Last attempt failed
)

// SummaryJob tracks one summarization request through the queue.
// Attempt counting belongs to the queue worker, not the engine: the
// engine reports failure, the worker decides redelivery.
type SummaryJob struct {
	ID            uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID     uuid.UUID        `json:"meeting_id" gorm:"type:uuid;not null;index"`
	TranscriptID  uuid.UUID        `json:"transcript_id" gorm:"type:uuid;not null;index"`
	Status        SummaryJobStatus `json:"status" gorm:"type:varchar(20);not null;default:'queued';index"`
	Attempts      int              `json:"attempts" gorm:"type:integer;default:0"`
	MaxAttempts   int              `json:"max_attempts" gorm:"type:integer;default:3"`
	LastError     *string          `json:"last_error,omitempty" gorm:"type:text"`
	PromptVersion string           `json:"prompt_version,omitempty" gorm:"type:varchar(50)"`
	CustomPrompt  string           `json:"custom_prompt,omitempty" gorm:"type:text"`
	ForceModel    string           `json:"force_model,omitempty" gorm:"type:varchar(50)"`
	StartedAt     *time.Time       `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty" gorm:"type:timestamp"`
	CreatedAt     time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (SummaryJob) TableName() string {
	return "summary_jobs"
}

// NewSummaryJob creates a new queued summarization job
func NewSummaryJob(meetingID, transcriptID uuid.UUID, maxAttempts int) *SummaryJob {
	return &SummaryJob{
		ID:           uuid.New(),
		MeetingID:    meetingID,
		TranscriptID: transcriptID,
		Status:       SummaryJobStatusQueued,
		Attempts:     0,
		MaxAttempts:  maxAttempts,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// IsExhausted checks whether the job has used up its delivery attempts
func (j *SummaryJob) IsExhausted() bool {
	return j.Attempts >= j.MaxAttempts
}

// MarkAsRunning marks the job as claimed by a worker
func (j *SummaryJob) MarkAsRunning() {
	j.Status = SummaryJobStatusRunning
	now := time.Now()
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkAsCompleted marks the job as done
func (j *SummaryJob) MarkAsCompleted() {
	j.Status = SummaryJobStatusCompleted
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkAsFailed marks the job as failed with error message
func (j *SummaryJob) MarkAsFailed(errMsg string) {
	j.Status = SummaryJobStatusFailed
	j.LastError = &errMsg
	j.UpdatedAt = time.Now()
}

// SummaryJobPayload is the wire payload delivered through the queue.
type SummaryJobPayload struct {
	JobID         uuid.UUID `json:"job_id"`
	MeetingID     uuid.UUID `json:"meeting_id"`
	TranscriptID  uuid.UUID `json:"transcript_id"`
	PromptVersion string    `json:"prompt_version,omitempty"`
	CustomPrompt  string    `json:"custom_prompt,omitempty"`
	ForceModel    string    `json:"force_model,omitempty"`
}

// SummaryJobResult is returned to the queue on success.
type SummaryJobResult struct {
	MeetingID        uuid.UUID `json:"meeting_id"`
	SummaryID        uuid.UUID `json:"summary_id"`
	ActionItemCount  int       `json:"action_item_count"`
	TokensUsed       int       `json:"tokens_used"`
	ModelUsed        string    `json:"model_used"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
}
