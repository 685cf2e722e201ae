package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	repo "github.com/meetingflow-team/meetingflow/internal/domain/repositories"
)

type summaryJobRepository struct {
	db *gorm.DB
}

// NewSummaryJobRepository creates a summary job repository backed by GORM
func NewSummaryJobRepository(db *gorm.DB) repo.SummaryJobRepository {
	return &summaryJobRepository{db: db}
}

func (r *summaryJobRepository) Create(ctx context.Context, job *entities.SummaryJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create summary job: %w", err)
	}
	return nil
}

func (r *summaryJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.SummaryJob, error) {
	var job entities.SummaryJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to find summary job: %w", err)
	}
	return &job, nil
}

func (r *summaryJobRepository) MarkRunning(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, map[string]interface{}{
		"status":     entities.SummaryJobStatusRunning,
		"started_at": time.Now(),
		"updated_at": time.Now(),
	})
}

func (r *summaryJobRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, map[string]interface{}{
		"status":       entities.SummaryJobStatusCompleted,
		"completed_at": time.Now(),
		"updated_at":   time.Now(),
	})
}

func (r *summaryJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	return r.setStatus(ctx, id, map[string]interface{}{
		"status":     entities.SummaryJobStatusFailed,
		"last_error": message,
		"updated_at": time.Now(),
	})
}

// IncrementAttempts bumps the delivery counter in one statement so
// concurrent workers never read a stale count.
func (r *summaryJobRepository) IncrementAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	row := r.db.WithContext(ctx).
		Raw(`UPDATE summary_jobs SET attempts = attempts + 1, updated_at = NOW() WHERE id = ? RETURNING attempts`, id).
		Row()

	var attempts int
	if err := row.Scan(&attempts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, entities.ErrJobNotFound
		}
		return 0, fmt.Errorf("failed to increment job attempts: %w", err)
	}
	return attempts, nil
}

func (r *summaryJobRepository) setStatus(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&entities.SummaryJob{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update job status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrJobNotFound
	}
	return nil
}
