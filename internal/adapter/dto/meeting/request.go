package meeting

// ParticipantRequest represents one participant on a create request
type ParticipantRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Role  string `json:"role,omitempty" validate:"omitempty,oneof=host attendee"`
}

// CreateMeetingRequest represents the request to register a meeting
type CreateMeetingRequest struct {
	Title           string               `json:"title" validate:"required,min=1,max=500"`
	DurationSeconds int                  `json:"duration_seconds,omitempty" validate:"omitempty,min=0"`
	Participants    []ParticipantRequest `json:"participants,omitempty" validate:"omitempty,dive"`
}

// UploadTranscriptRequest carries raw transcript text for a meeting
type UploadTranscriptRequest struct {
	Text     string `json:"text" validate:"required"`
	Language string `json:"language,omitempty" validate:"omitempty,max=20"`
}

// SummarizeRequest represents the request to queue a summarization job
type SummarizeRequest struct {
	PromptVersion string `json:"prompt_version,omitempty" validate:"omitempty,max=50"`
	CustomPrompt  string `json:"custom_prompt,omitempty" validate:"omitempty,max=4000"`
	ForceModel    string `json:"force_model,omitempty" validate:"omitempty,oneof=anthropic openai"`
}
