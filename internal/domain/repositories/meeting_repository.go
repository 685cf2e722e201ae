package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
)

// MeetingRepository defines persistence operations for meetings
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus, metadata datatypes.JSON) error
}
