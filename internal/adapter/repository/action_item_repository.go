package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	repo "github.com/meetingflow-team/meetingflow/internal/domain/repositories"
)

type actionItemRepository struct {
	db *gorm.DB
}

// NewActionItemRepository creates an action item repository backed by GORM
func NewActionItemRepository(db *gorm.DB) repo.ActionItemRepository {
	return &actionItemRepository{db: db}
}

func (r *actionItemRepository) DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Delete(&entities.ActionItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete action items: %w", err)
	}
	return nil
}

func (r *actionItemRepository) CreateBatch(ctx context.Context, items []*entities.ActionItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(items).Error; err != nil {
		return fmt.Errorf("failed to create action items: %w", err)
	}
	return nil
}

func (r *actionItemRepository) ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.ActionItem, error) {
	var items []*entities.ActionItem
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list action items: %w", err)
	}
	return items, nil
}
