package presenter

import (
	"encoding/json"

	"github.com/meetingflow-team/meetingflow/internal/adapter/dto/insight"
	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
)

// ToTemplateResponse converts an InsightTemplate entity to TemplateResponse DTO
func ToTemplateResponse(t *entities.InsightTemplate) *insight.TemplateResponse {
	if t == nil {
		return nil
	}

	return &insight.TemplateResponse{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		PromptBody:   t.PromptBody,
		OutputSchema: string(t.OutputSchema),
		BuiltIn:      t.BuiltIn,
		CreatedAt:    t.CreatedAt,
	}
}

// ToTemplateListResponse converts a slice of InsightTemplate entities
func ToTemplateListResponse(templates []*entities.InsightTemplate) []*insight.TemplateResponse {
	responses := make([]*insight.TemplateResponse, len(templates))
	for i, t := range templates {
		responses[i] = ToTemplateResponse(t)
	}
	return responses
}

// ToInsightResultResponse converts an InsightResult entity to ResultResponse DTO
func ToInsightResultResponse(r *entities.InsightResult) *insight.ResultResponse {
	if r == nil {
		return nil
	}

	return &insight.ResultResponse{
		ID:               r.ID.String(),
		MeetingID:        r.MeetingID.String(),
		TemplateID:       r.TemplateID,
		TemplateName:     r.TemplateName,
		Content:          json.RawMessage(r.Content),
		ModelUsed:        r.ModelUsed,
		TokensUsed:       r.TokensUsed,
		ProcessingTimeMs: r.ProcessingTimeMs,
		CreatedAt:        r.CreatedAt,
	}
}

// ToInsightResultListResponse converts a slice of InsightResult entities
func ToInsightResultListResponse(results []*entities.InsightResult) []*insight.ResultResponse {
	responses := make([]*insight.ResultResponse, len(results))
	for i, r := range results {
		responses[i] = ToInsightResultResponse(r)
	}
	return responses
}
