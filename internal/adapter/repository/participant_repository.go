package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	repo "github.com/meetingflow-team/meetingflow/internal/domain/repositories"
)

type participantRepository struct {
	db *gorm.DB
}

// NewParticipantRepository creates a participant repository backed by GORM
func NewParticipantRepository(db *gorm.DB) repo.ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) CreateBatch(ctx context.Context, participants []*entities.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(participants).Error; err != nil {
		return fmt.Errorf("failed to create participants: %w", err)
	}
	return nil
}

func (r *participantRepository) ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.Participant, error) {
	var participants []*entities.Participant
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}
