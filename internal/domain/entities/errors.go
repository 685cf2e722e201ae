package entities

import "errors"

// Domain errors
var (
	// Resource lookups. These are fatal for a running job: retrying a job
	// whose transcript does not exist cannot succeed.
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrSummaryNotFound    = errors.New("summary not found")
	ErrTemplateNotFound   = errors.New("insight template not found")
	ErrRecordingNotFound  = errors.New("recording not found")
	ErrJobNotFound        = errors.New("summary job not found")

	// Validation errors
	ErrEmptyTranscript  = errors.New("transcript text is empty")
	ErrInvalidPriority  = errors.New("invalid action item priority")
	ErrInvalidSentiment = errors.New("invalid sentiment value")
	ErrTemplateExists   = errors.New("insight template already exists")
)
