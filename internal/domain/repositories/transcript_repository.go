package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
)

// TranscriptRepository defines persistence operations for transcripts
type TranscriptRepository interface {
	Create(ctx context.Context, transcript *entities.Transcript) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Transcript, error)
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error)
	FindByExternalID(ctx context.Context, externalID string) (*entities.Transcript, error)
}
