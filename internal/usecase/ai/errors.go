package ai

import (
	"errors"
	"fmt"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
)

// ParseError is a model response that could not be turned into a valid
// structure. Raw carries the complete response text for diagnosis.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model output: %s", e.Reason)
}

// ConfigurationError is an unusable engine configuration detected at call
// time, such as no provider credentials at all. Never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("llm configuration error: %s", e.Reason)
}

// IsFatal reports whether err can never succeed on redelivery. The queue
// worker drops fatal jobs immediately instead of burning attempts.
func IsFatal(err error) bool {
	var confErr *ConfigurationError
	if errors.As(err, &confErr) {
		return true
	}
	switch {
	case errors.Is(err, entities.ErrMeetingNotFound),
		errors.Is(err, entities.ErrTranscriptNotFound),
		errors.Is(err, entities.ErrTemplateNotFound),
		errors.Is(err, entities.ErrEmptyTranscript):
		return true
	}
	return false
}
