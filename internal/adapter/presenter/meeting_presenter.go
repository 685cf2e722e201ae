package presenter

import (
	"encoding/json"

	"github.com/meetingflow-team/meetingflow/internal/adapter/dto/meeting"
	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
)

// ToMeetingResponse converts a Meeting entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.Meeting, participants []*entities.Participant) *meeting.MeetingResponse {
	if m == nil {
		return nil
	}

	response := &meeting.MeetingResponse{
		ID:              m.ID.String(),
		Title:           m.Title,
		DurationSeconds: m.DurationSeconds,
		ScheduledAt:     m.ScheduledAt,
		Status:          string(m.Status),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}

	if len(m.StatusMetadata) > 0 {
		response.StatusMetadata = json.RawMessage(m.StatusMetadata)
	}

	for _, p := range participants {
		response.Participants = append(response.Participants, ToParticipantResponse(p))
	}

	return response
}

// ToParticipantResponse converts a Participant entity to ParticipantResponse DTO
func ToParticipantResponse(p *entities.Participant) *meeting.ParticipantResponse {
	if p == nil {
		return nil
	}

	return &meeting.ParticipantResponse{
		ID:        p.ID.String(),
		MeetingID: p.MeetingID.String(),
		Name:      p.Name,
		Email:     p.Email,
		Role:      string(p.Role),
		CreatedAt: p.CreatedAt,
	}
}

// ToTranscriptResponse converts a Transcript entity to TranscriptResponse DTO.
// The raw text is only included when includeText is set.
func ToTranscriptResponse(t *entities.Transcript, includeText bool) *meeting.TranscriptResponse {
	if t == nil {
		return nil
	}

	response := &meeting.TranscriptResponse{
		ID:           t.ID.String(),
		MeetingID:    t.MeetingID.String(),
		WordCount:    t.WordCount,
		Language:     t.Language,
		Source:       string(t.Source),
		HasSpeakers:  t.HasSpeakers,
		SpeakerCount: t.SpeakerCount,
		CreatedAt:    t.CreatedAt,
	}

	if includeText {
		response.Text = t.Text
	}

	return response
}
