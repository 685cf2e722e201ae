package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
)

// ParticipantRepository defines persistence operations for meeting participants
type ParticipantRepository interface {
	CreateBatch(ctx context.Context, participants []*entities.Participant) error
	ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.Participant, error)
}
