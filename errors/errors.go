package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode identifies an error class for API responses.
type ErrorCode string

const (
	ErrorCode_OK                   ErrorCode = "OK"
	ErrorCode_INTERNAL             ErrorCode = "INTERNAL"
	ErrorCode_INVALID_ARGUMENT     ErrorCode = "INVALID_ARGUMENT"
	ErrorCode_INVALID_PAYLOAD      ErrorCode = "INVALID_PAYLOAD"
	ErrorCode_NOT_FOUND            ErrorCode = "NOT_FOUND"
	ErrorCode_ALREADY_EXISTS       ErrorCode = "ALREADY_EXISTS"
	ErrorCode_PROCESSING_FAILED    ErrorCode = "PROCESSING_FAILED"
	ErrorCode_SUMMARY_FAILED       ErrorCode = "SUMMARY_FAILED"
	ErrorCode_INSIGHT_FAILED       ErrorCode = "INSIGHT_FAILED"
	ErrorCode_PROVIDER_UNAVAILABLE ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrorCode_QUOTA_EXCEEDED       ErrorCode = "QUOTA_EXCEEDED"
	ErrorCode_TRANSCRIPTION_FAILED ErrorCode = "TRANSCRIPTION_FAILED"
	ErrorCode_STORAGE_FAILED       ErrorCode = "STORAGE_FAILED"
	ErrorCode_QUEUE_FAILED         ErrorCode = "QUEUE_FAILED"
	ErrorCode_DB_FAILED            ErrorCode = "DB_FAILED"
)

// String returns the code as a plain string.
func (c ErrorCode) String() string {
	return string(c)
}

// AppError is the application error type surfaced by the HTTP layer.
type AppError struct {
	Raw      error
	HTTPCode int
	Code     ErrorCode
	Message  string
	Details  map[string]string
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/As.
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors

func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrAlreadyExists(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_ALREADY_EXISTS,
		Message:  fmt.Sprintf("%s already exists", resource),
	}
}

func ErrProcessingFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_PROCESSING_FAILED,
		Message:  "Processing failed",
	}
}

// Summarization Errors

func ErrSummaryFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_SUMMARY_FAILED,
		Message:  "Failed to generate summary",
	}
}

func ErrInsightFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INSIGHT_FAILED,
		Message:  "Failed to extract insight",
	}
}

func ErrProviderUnavailable(provider string) AppError {
	return AppError{
		HTTPCode: http.StatusServiceUnavailable,
		Code:     ErrorCode_PROVIDER_UNAVAILABLE,
		Message:  "LLM provider temporarily unavailable",
	}.WithDetail("provider", provider)
}

func ErrQuotaExceeded() AppError {
	return AppError{
		HTTPCode: http.StatusTooManyRequests,
		Code:     ErrorCode_QUOTA_EXCEEDED,
		Message:  "LLM provider quota exceeded",
	}
}

func ErrTranscriptionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_TRANSCRIPTION_FAILED,
		Message:  "Audio transcription failed",
	}
}

// Integration Errors

func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_STORAGE_FAILED,
		Message:  fmt.Sprintf("Storage operation failed: %s", operation),
	}
}

func ErrQueueFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_QUEUE_FAILED,
		Message:  fmt.Sprintf("Queue operation failed: %s", operation),
	}
}

func ErrDBFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_DB_FAILED,
		Message:  "Database operation failed",
	}
}
