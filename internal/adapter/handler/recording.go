package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetingflow-team/meetingflow/errors"
	"github.com/meetingflow-team/meetingflow/internal/adapter/presenter"
	"github.com/meetingflow-team/meetingflow/internal/usecase/transcription"
)

const recordingFormField = "file"

// Recording handles audio upload and transcription endpoints
type Recording struct {
	svc    *transcription.Service
	logger *zap.Logger
}

// NewRecording creates a new recording handler
func NewRecording(svc *transcription.Service, logger *zap.Logger) *Recording {
	return &Recording{svc: svc, logger: logger}
}

// Upload stores an audio recording for a meeting
// @Summary      Upload a recording
// @Description  Accepts a multipart audio file and stores it in object storage
// @Tags         Recordings
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string                      true  "Meeting ID (UUID)"
// @Param        file  formData  file                        true  "Audio file"
// @Success      200   {object}  recording.RecordingResponse  "Recording stored"
// @Failure      400   {object}  map[string]interface{}       "Missing file or invalid meeting ID"
// @Failure      404   {object}  map[string]interface{}       "Meeting not found"
// @Router       /meetings/{id}/recordings [post]
func (h *Recording) Upload(c echo.Context) error {
	meetingID, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	fileHeader, err := c.FormFile(recordingFormField)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("missing file upload"))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("open upload", err))
	}
	defer src.Close()

	rec, err := h.svc.UploadRecording(c.Request().Context(), transcription.UploadRecordingInput{
		MeetingID:   meetingID,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
		Body:        src,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToRecordingResponse(rec))
}

// Transcribe submits a stored recording for transcription
// @Summary      Transcribe a recording
// @Description  Submits the recording's audio to the transcription provider; the transcript arrives via webhook
// @Tags         Recordings
// @Produce      json
// @Param        id   path      string                       true  "Recording ID (UUID)"
// @Success      200  {object}  recording.RecordingResponse  "Transcription submitted"
// @Failure      404  {object}  map[string]interface{}       "Recording not found"
// @Failure      500  {object}  map[string]interface{}       "Provider submission failed"
// @Router       /recordings/{id}/transcribe [post]
func (h *Recording) Transcribe(c echo.Context) error {
	recordingID, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	rec, err := h.svc.StartTranscription(c.Request().Context(), recordingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToRecordingResponse(rec))
}
