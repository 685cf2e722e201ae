package insight

// ExtractRequest represents the request to run one insight template
type ExtractRequest struct {
	TemplateID string `json:"template_id" validate:"required,min=1,max=100"`
}

// BatchExtractRequest represents the request to run several templates
// against the same meeting in one call
type BatchExtractRequest struct {
	TemplateIDs []string `json:"template_ids" validate:"required,min=1,max=10,dive,min=1,max=100"`
}

// CreateTemplateRequest represents the request to register a custom
// insight template
type CreateTemplateRequest struct {
	ID           string `json:"id,omitempty" validate:"omitempty,max=100"`
	Name         string `json:"name" validate:"required,min=1,max=255"`
	Description  string `json:"description,omitempty" validate:"omitempty,max=2000"`
	PromptBody   string `json:"prompt_body" validate:"required,min=1"`
	OutputSchema string `json:"output_schema,omitempty" validate:"omitempty,oneof=text list table json"`
}
