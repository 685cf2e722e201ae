package handler

import (
	"crypto/hmac"
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetingflow-team/meetingflow/errors"
	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	"github.com/meetingflow-team/meetingflow/internal/infrastructure/external/assemblyai"
	"github.com/meetingflow-team/meetingflow/internal/usecase/transcription"
)

// Webhook handles transcription provider callbacks
type Webhook struct {
	svc    *transcription.Service
	secret string
	logger *zap.Logger
}

// NewWebhook creates a new webhook handler. The secret is the value the
// provider was told to echo back in the auth header; an empty secret
// disables verification.
func NewWebhook(svc *transcription.Service, secret string, logger *zap.Logger) *Webhook {
	return &Webhook{svc: svc, secret: secret, logger: logger}
}

// HandleAssemblyAI ingests a transcription status callback
// @Summary      AssemblyAI webhook
// @Description  Receives transcription completion callbacks; authenticated via the configured webhook header
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        payload  body      object{transcript_id=string,status=string}  true  "Webhook payload"
// @Success      200      {object}  map[string]interface{}                      "Acknowledged"
// @Failure      401      {object}  map[string]interface{}                      "Bad webhook secret"
// @Failure      500      {object}  map[string]interface{}                      "Ingestion failed, provider should retry"
// @Router       /webhooks/assemblyai [post]
func (h *Webhook) HandleAssemblyAI(c echo.Context) error {
	if h.secret != "" {
		got := c.Request().Header.Get(assemblyai.WebhookAuthHeader)
		if !hmac.Equal([]byte(got), []byte(h.secret)) {
			if h.logger != nil {
				h.logger.Warn("❌ Webhook rejected, bad secret",
					zap.String("request_id", getRequestID(c)),
				)
			}
			return c.JSON(http.StatusUnauthorized, errs{
				Code:    errors.ErrorCode_INVALID_ARGUMENT,
				Message: "bad webhook secret",
			})
		}
	}

	var payload assemblyai.WebhookPayload
	if err := c.Bind(&payload); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if payload.TranscriptID == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("missing transcript_id"))
	}

	err := h.svc.HandleWebhook(c.Request().Context(), payload)
	if stdErrors.Is(err, entities.ErrRecordingNotFound) {
		// Acknowledge deliveries for transcripts we no longer track,
		// otherwise the provider keeps retrying them.
		if h.logger != nil {
			h.logger.Warn("❌ Webhook for unknown transcript, dropping",
				zap.String("transcript_id", payload.TranscriptID),
			)
		}
		return HandleSuccess(h.logger, c, map[string]interface{}{"status": "ignored"})
	}
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{"status": "processed"})
}
