package presenter

import (
	"github.com/meetingflow-team/meetingflow/internal/adapter/dto/recording"
	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
)

// ToRecordingResponse converts a Recording entity to RecordingResponse DTO
func ToRecordingResponse(r *entities.Recording) *recording.RecordingResponse {
	if r == nil {
		return nil
	}

	return &recording.RecordingResponse{
		ID:          r.ID.String(),
		MeetingID:   r.MeetingID.String(),
		FileName:    r.FileName,
		ContentType: r.ContentType,
		SizeBytes:   r.SizeBytes,
		Status:      string(r.Status),
		ExternalID:  r.ExternalID,
		Error:       r.Error,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
