package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetingflow-team/meetingflow/errors"
	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	"github.com/meetingflow-team/meetingflow/pkg/llm"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// parseIDParam reads a UUID path parameter or fails with a 400
func parseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("invalid " + name)
	}
	return id, nil
}

// mapDomainError translates domain sentinels and provider errors into
// AppError so every handler reports them the same way. Errors it does
// not recognize pass through untouched and fall out as 500s.
func mapDomainError(err error) error {
	switch {
	case stdErrors.Is(err, entities.ErrMeetingNotFound):
		return errors.ErrNotFound("meeting")
	case stdErrors.Is(err, entities.ErrTranscriptNotFound):
		return errors.ErrNotFound("transcript")
	case stdErrors.Is(err, entities.ErrSummaryNotFound):
		return errors.ErrNotFound("summary")
	case stdErrors.Is(err, entities.ErrTemplateNotFound):
		return errors.ErrNotFound("insight template")
	case stdErrors.Is(err, entities.ErrRecordingNotFound):
		return errors.ErrNotFound("recording")
	case stdErrors.Is(err, entities.ErrJobNotFound):
		return errors.ErrNotFound("summary job")
	case stdErrors.Is(err, entities.ErrTemplateExists):
		return errors.ErrAlreadyExists("insight template")
	case stdErrors.Is(err, entities.ErrEmptyTranscript):
		return errors.ErrInvalidArgument("transcript text is empty")
	}

	var apiErr *llm.APIError
	if stdErrors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return errors.ErrQuotaExceeded()
		case apiErr.Retryable:
			return errors.ErrProviderUnavailable(string(apiErr.Provider))
		}
	}

	return err
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    errors.ErrorCode_OK,
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)
	err = mapDomainError(err)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
			Details: appErr.Details,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	}

	return c.JSON(http.StatusInternalServerError, body)
}
