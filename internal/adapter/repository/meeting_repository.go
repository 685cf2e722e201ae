package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	repo "github.com/meetingflow-team/meetingflow/internal/domain/repositories"
)

type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a meeting repository backed by GORM
func NewMeetingRepository(db *gorm.DB) repo.MeetingRepository {
	return &meetingRepository{db: db}
}

func (r *meetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(meeting).Error; err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	return &meeting, nil
}

func (r *meetingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus, metadata datatypes.JSON) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if metadata != nil {
		updates["status_metadata"] = metadata
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update meeting status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrMeetingNotFound
	}
	return nil
}
