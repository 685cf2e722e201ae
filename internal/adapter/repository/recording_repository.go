package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	repo "github.com/meetingflow-team/meetingflow/internal/domain/repositories"
)

type recordingRepository struct {
	db *gorm.DB
}

// NewRecordingRepository creates a recording repository backed by GORM
func NewRecordingRepository(db *gorm.DB) repo.RecordingRepository {
	return &recordingRepository{db: db}
}

func (r *recordingRepository) Create(ctx context.Context, recording *entities.Recording) error {
	if recording == nil {
		return errors.New("recording cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(recording).Error; err != nil {
		return fmt.Errorf("failed to create recording: %w", err)
	}
	return nil
}

func (r *recordingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Recording, error) {
	var recording entities.Recording
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recording).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrRecordingNotFound
		}
		return nil, fmt.Errorf("failed to find recording: %w", err)
	}
	return &recording, nil
}

func (r *recordingRepository) FindByExternalID(ctx context.Context, externalID string) (*entities.Recording, error) {
	var recording entities.Recording
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&recording).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrRecordingNotFound
		}
		return nil, fmt.Errorf("failed to find recording by external id: %w", err)
	}
	return &recording, nil
}

func (r *recordingRepository) Update(ctx context.Context, recording *entities.Recording) error {
	if recording == nil {
		return errors.New("recording cannot be nil")
	}
	if err := r.db.WithContext(ctx).Save(recording).Error; err != nil {
		return fmt.Errorf("failed to update recording: %w", err)
	}
	return nil
}
