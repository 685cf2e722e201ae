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

type transcriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a transcript repository backed by GORM
func NewTranscriptRepository(db *gorm.DB) repo.TranscriptRepository {
	return &transcriptRepository{db: db}
}

func (r *transcriptRepository) Create(ctx context.Context, transcript *entities.Transcript) error {
	if transcript == nil {
		return errors.New("transcript cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(transcript).Error; err != nil {
		return fmt.Errorf("failed to create transcript: %w", err)
	}
	return nil
}

func (r *transcriptRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Transcript, error) {
	var transcript entities.Transcript
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&transcript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("failed to find transcript: %w", err)
	}
	return &transcript, nil
}

func (r *transcriptRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error) {
	var transcript entities.Transcript
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		First(&transcript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("failed to find transcript for meeting: %w", err)
	}
	return &transcript, nil
}

func (r *transcriptRepository) FindByExternalID(ctx context.Context, externalID string) (*entities.Transcript, error) {
	var transcript entities.Transcript
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&transcript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("failed to find transcript by external id: %w", err)
	}
	return &transcript, nil
}
