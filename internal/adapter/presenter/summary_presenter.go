package presenter

import (
	"encoding/json"

	"github.com/meetingflow-team/meetingflow/internal/adapter/dto/summary"
	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
)

// ToSummaryResponse converts a MeetingSummary entity to SummaryResponse DTO
func ToSummaryResponse(s *entities.MeetingSummary) *summary.SummaryResponse {
	if s == nil {
		return nil
	}

	return &summary.SummaryResponse{
		ID:            s.ID.String(),
		MeetingID:     s.MeetingID.String(),
		Content:       json.RawMessage(s.Content),
		ModelUsed:     s.ModelUsed,
		PromptVersion: s.PromptVersion,
		TokensUsed: summary.TokenUsage{
			Input:  s.InputTokens,
			Output: s.OutputTokens,
			Total:  s.TotalTokens,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ToActionItemResponse converts an ActionItem entity to ActionItemResponse DTO
func ToActionItemResponse(item *entities.ActionItem) *summary.ActionItemResponse {
	if item == nil {
		return nil
	}

	return &summary.ActionItemResponse{
		ID:        item.ID.String(),
		MeetingID: item.MeetingID.String(),
		Text:      item.Text,
		Assignee:  item.Assignee,
		DueDate:   item.DueDate,
		Priority:  string(item.Priority),
		CreatedAt: item.CreatedAt,
	}
}

// ToActionItemListResponse converts a slice of ActionItem entities
func ToActionItemListResponse(items []*entities.ActionItem) []*summary.ActionItemResponse {
	responses := make([]*summary.ActionItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToActionItemResponse(item)
	}
	return responses
}

// ToJobStatusResponse converts a SummaryJob entity to JobStatusResponse DTO
func ToJobStatusResponse(job *entities.SummaryJob) *summary.JobStatusResponse {
	if job == nil {
		return nil
	}

	return &summary.JobStatusResponse{
		ID:           job.ID.String(),
		MeetingID:    job.MeetingID.String(),
		TranscriptID: job.TranscriptID.String(),
		Status:       string(job.Status),
		Attempts:     job.Attempts,
		MaxAttempts:  job.MaxAttempts,
		LastError:    job.LastError,
		ForceModel:   job.ForceModel,
		StartedAt:    job.StartedAt,
		CompletedAt:  job.CompletedAt,
		CreatedAt:    job.CreatedAt,
	}
}
