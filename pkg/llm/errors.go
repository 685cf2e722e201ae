package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a failed provider call. StatusCode is 0 when the request
// never reached the provider (transport failure). Retryable marks errors
// in the rate-limit and server-unavailable classes; everything else is
// treated as permanent by callers.
type APIError struct {
	Provider   Provider
	StatusCode int
	Message    string
	Retryable  bool
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s api error: %s", e.Provider, e.Message)
}

// NewAPIError builds an APIError from an HTTP status, classifying
// retryability from the status code.
func NewAPIError(provider Provider, statusCode int, message string) *APIError {
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
		Retryable:  retryableStatus(statusCode),
	}
}

// NewTransportError wraps a network-level failure. Always retryable.
func NewTransportError(provider Provider, err error) *APIError {
	return &APIError{
		Provider:  provider,
		Message:   err.Error(),
		Retryable: true,
	}
}

func retryableStatus(code int) bool {
	switch {
	case code == http.StatusTooManyRequests:
		return true
	case code == http.StatusRequestTimeout:
		return true
	case code >= http.StatusInternalServerError:
		return true
	}
	return false
}

// IsRetryable reports whether err is a provider failure worth retrying.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	return false
}
