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

type insightTemplateRepository struct {
	db *gorm.DB
}

// NewInsightTemplateRepository creates an insight template repository backed by GORM
func NewInsightTemplateRepository(db *gorm.DB) repo.InsightTemplateRepository {
	return &insightTemplateRepository{db: db}
}

func (r *insightTemplateRepository) Create(ctx context.Context, template *entities.InsightTemplate) error {
	if template == nil {
		return errors.New("template cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(template).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return entities.ErrTemplateExists
		}
		return fmt.Errorf("failed to create insight template: %w", err)
	}
	return nil
}

func (r *insightTemplateRepository) FindByID(ctx context.Context, id string) (*entities.InsightTemplate, error) {
	var template entities.InsightTemplate
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to find insight template: %w", err)
	}
	return &template, nil
}

func (r *insightTemplateRepository) List(ctx context.Context) ([]*entities.InsightTemplate, error) {
	var templates []*entities.InsightTemplate
	if err := r.db.WithContext(ctx).
		Order("built_in DESC, name ASC").
		Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list insight templates: %w", err)
	}
	return templates, nil
}

type insightResultRepository struct {
	db *gorm.DB
}

// NewInsightResultRepository creates an insight result repository backed by GORM
func NewInsightResultRepository(db *gorm.DB) repo.InsightResultRepository {
	return &insightResultRepository{db: db}
}

func (r *insightResultRepository) Create(ctx context.Context, result *entities.InsightResult) error {
	if result == nil {
		return errors.New("result cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to create insight result: %w", err)
	}
	return nil
}

func (r *insightResultRepository) ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.InsightResult, error) {
	var results []*entities.InsightResult
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list insight results: %w", err)
	}
	return results, nil
}
