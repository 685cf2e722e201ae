package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetingflow-team/meetingflow/errors"
	"github.com/meetingflow-team/meetingflow/internal/adapter/dto/meeting"
	"github.com/meetingflow-team/meetingflow/internal/adapter/presenter"
	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	"github.com/meetingflow-team/meetingflow/internal/infrastructure/queue"
	meetinguse "github.com/meetingflow-team/meetingflow/internal/usecase/meeting"
)

// Meeting handles meeting lifecycle and summarization endpoints
type Meeting struct {
	svc    *meetinguse.Service
	logger *zap.Logger
}

// NewMeeting creates a new meeting handler
func NewMeeting(svc *meetinguse.Service, logger *zap.Logger) *Meeting {
	return &Meeting{svc: svc, logger: logger}
}

// Create registers a new meeting
// @Summary      Create a meeting
// @Description  Registers a meeting with an optional participant roster
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Param        request  body      meeting.CreateMeetingRequest  true  "Meeting creation request"
// @Success      200      {object}  meeting.MeetingResponse       "Meeting created"
// @Failure      400      {object}  map[string]interface{}        "Invalid request or validation failed"
// @Router       /meetings [post]
func (h *Meeting) Create(c echo.Context) error {
	var req meeting.CreateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	input := meetinguse.CreateMeetingInput{
		Title:           req.Title,
		DurationSeconds: req.DurationSeconds,
	}
	for _, p := range req.Participants {
		input.Participants = append(input.Participants, meetinguse.ParticipantInput{
			Name:  p.Name,
			Email: p.Email,
			Role:  entities.ParticipantRole(p.Role),
		})
	}

	m, participants, err := h.svc.CreateMeeting(c.Request().Context(), input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(m, participants))
}

// Get returns a meeting with its participants
// @Summary      Get a meeting
// @Tags         Meetings
// @Produce      json
// @Param        id   path      string                   true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.MeetingResponse  "Meeting"
// @Failure      404  {object}  map[string]interface{}   "Meeting not found"
// @Router       /meetings/{id} [get]
func (h *Meeting) Get(c echo.Context) error {
	meetingID, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	m, participants, err := h.svc.GetMeeting(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(m, participants))
}

// UploadTranscript stores raw transcript text for a meeting
// @Summary      Upload a transcript
// @Description  Stores raw transcript text; summarization is requested separately
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Meeting ID (UUID)"
// @Param        request  body      meeting.UploadTranscriptRequest  true  "Transcript text"
// @Success      200      {object}  meeting.TranscriptResponse       "Transcript stored"
// @Failure      400      {object}  map[string]interface{}           "Empty transcript or invalid request"
// @Failure      404      {object}  map[string]interface{}           "Meeting not found"
// @Router       /meetings/{id}/transcript [post]
func (h *Meeting) UploadTranscript(c echo.Context) error {
	meetingID, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meeting.UploadTranscriptRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	transcript, err := h.svc.UploadTranscript(c.Request().Context(), meetingID, req.Text, req.Language)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToTranscriptResponse(transcript, false))
}

// Summarize queues a summarization job for the meeting
// @Summary      Request a summary
// @Description  Queues an asynchronous summarization job for the meeting's latest transcript
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true   "Meeting ID (UUID)"
// @Param        request  body      meeting.SummarizeRequest   false  "Summarization options"
// @Success      200      {object}  summary.JobStatusResponse  "Job queued"
// @Failure      404      {object}  map[string]interface{}     "Meeting or transcript not found"
// @Router       /meetings/{id}/summarize [post]
func (h *Meeting) Summarize(c echo.Context) error {
	meetingID, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meeting.SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	job, err := h.svc.RequestSummary(c.Request().Context(), meetingID, queue.EnqueueOptions{
		PromptVersion: req.PromptVersion,
		CustomPrompt:  req.CustomPrompt,
		ForceModel:    req.ForceModel,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToJobStatusResponse(job))
}

// GetSummary returns the stored summary for a meeting
// @Summary      Get the meeting summary
// @Tags         Meetings
// @Produce      json
// @Param        id   path      string                   true  "Meeting ID (UUID)"
// @Success      200  {object}  summary.SummaryResponse  "Summary"
// @Failure      404  {object}  map[string]interface{}   "No summary stored yet"
// @Router       /meetings/{id}/summary [get]
func (h *Meeting) GetSummary(c echo.Context) error {
	meetingID, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	s, err := h.svc.GetSummary(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSummaryResponse(s))
}

// ListActionItems returns the action items extracted for a meeting
// @Summary      List action items
// @Tags         Meetings
// @Produce      json
// @Param        id   path      string                        true  "Meeting ID (UUID)"
// @Success      200  {array}   summary.ActionItemResponse    "Action items"
// @Failure      404  {object}  map[string]interface{}        "Meeting not found"
// @Router       /meetings/{id}/action-items [get]
func (h *Meeting) ListActionItems(c echo.Context) error {
	meetingID, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	items, err := h.svc.ListActionItems(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToActionItemListResponse(items))
}

// GetJobStatus returns the state of a summarization job
// @Summary      Get summarization job status
// @Tags         Jobs
// @Produce      json
// @Param        id   path      string                     true  "Job ID (UUID)"
// @Success      200  {object}  summary.JobStatusResponse  "Job status"
// @Failure      404  {object}  map[string]interface{}     "Job not found"
// @Router       /jobs/{id} [get]
func (h *Meeting) GetJobStatus(c echo.Context) error {
	jobID, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	job, err := h.svc.GetJobStatus(c.Request().Context(), jobID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToJobStatusResponse(job))
}
