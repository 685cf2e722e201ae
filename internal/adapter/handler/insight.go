package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetingflow-team/meetingflow/errors"
	"github.com/meetingflow-team/meetingflow/internal/adapter/dto/insight"
	"github.com/meetingflow-team/meetingflow/internal/adapter/presenter"
	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	aiuse "github.com/meetingflow-team/meetingflow/internal/usecase/ai"
)

// Insight handles insight template and extraction endpoints
type Insight struct {
	svc    aiuse.InsightsService
	logger *zap.Logger
}

// NewInsight creates a new insight handler
func NewInsight(svc aiuse.InsightsService, logger *zap.Logger) *Insight {
	return &Insight{svc: svc, logger: logger}
}

// Extract runs one insight template against a meeting transcript
// @Summary      Extract an insight
// @Description  Runs a single insight template against the meeting's latest transcript
// @Tags         Insights
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Meeting ID (UUID)"
// @Param        request  body      insight.ExtractRequest  true  "Template to run"
// @Success      200      {object}  insight.ResultResponse  "Extracted insight"
// @Failure      404      {object}  map[string]interface{}  "Meeting, transcript, or template not found"
// @Failure      429      {object}  map[string]interface{}  "Provider quota exceeded"
// @Router       /meetings/{id}/insights [post]
func (h *Insight) Extract(c echo.Context) error {
	meetingID, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req insight.ExtractRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	result, err := h.svc.ExtractInsight(c.Request().Context(), meetingID, req.TemplateID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToInsightResultResponse(result))
}

// ExtractBatch runs several insight templates in one call
// @Summary      Extract insights in batch
// @Description  Runs each requested template; templates that fail are reported but do not abort the batch
// @Tags         Insights
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Meeting ID (UUID)"
// @Param        request  body      insight.BatchExtractRequest   true  "Templates to run"
// @Success      200      {object}  insight.BatchExtractResponse  "Extraction results"
// @Failure      400      {object}  map[string]interface{}        "Invalid request"
// @Router       /meetings/{id}/insights/batch [post]
func (h *Insight) ExtractBatch(c echo.Context) error {
	meetingID, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req insight.BatchExtractRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	results, err := h.svc.ExtractMultipleInsights(c.Request().Context(), meetingID, req.TemplateIDs)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	succeeded := make(map[string]bool, len(results))
	for _, r := range results {
		succeeded[r.TemplateID] = true
	}
	var failed []string
	for _, id := range req.TemplateIDs {
		if !succeeded[id] {
			failed = append(failed, id)
		}
	}

	return HandleSuccess(h.logger, c, &insight.BatchExtractResponse{
		Results: presenter.ToInsightResultListResponse(results),
		Failed:  failed,
	})
}

// ListResults returns the insights already extracted for a meeting
// @Summary      List extracted insights
// @Tags         Insights
// @Produce      json
// @Param        id   path      string                  true  "Meeting ID (UUID)"
// @Success      200  {array}   insight.ResultResponse  "Extracted insights"
// @Router       /meetings/{id}/insights [get]
func (h *Insight) ListResults(c echo.Context) error {
	meetingID, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	results, err := h.svc.ListResults(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToInsightResultListResponse(results))
}

// ListTemplates returns the insight template catalog
// @Summary      List insight templates
// @Tags         Insights
// @Produce      json
// @Success      200  {array}  insight.TemplateResponse  "Templates, built-in first"
// @Router       /insights/templates [get]
func (h *Insight) ListTemplates(c echo.Context) error {
	templates, err := h.svc.ListTemplates(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToTemplateListResponse(templates))
}

// CreateTemplate registers a custom insight template
// @Summary      Create an insight template
// @Description  Registers a custom template; the ID is derived from the name when omitted
// @Tags         Insights
// @Accept       json
// @Produce      json
// @Param        request  body      insight.CreateTemplateRequest  true  "Template definition"
// @Success      200      {object}  insight.TemplateResponse       "Template created"
// @Failure      400      {object}  map[string]interface{}         "Invalid schema or validation failed"
// @Failure      409      {object}  map[string]interface{}         "Template ID already taken"
// @Router       /insights/templates [post]
func (h *Insight) CreateTemplate(c echo.Context) error {
	var req insight.CreateTemplateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	template := &entities.InsightTemplate{
		ID:           req.ID,
		Name:         req.Name,
		Description:  req.Description,
		PromptBody:   req.PromptBody,
		OutputSchema: entities.InsightOutputSchema(req.OutputSchema),
	}
	if err := h.svc.CreateTemplate(c.Request().Context(), template); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToTemplateResponse(template))
}
