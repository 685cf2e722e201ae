package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
)

// RecordingRepository defines persistence operations for uploaded
// recordings
type RecordingRepository interface {
	Create(ctx context.Context, recording *entities.Recording) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Recording, error)
	FindByExternalID(ctx context.Context, externalID string) (*entities.Recording, error)
	Update(ctx context.Context, recording *entities.Recording) error
}
