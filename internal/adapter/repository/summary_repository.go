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

type summaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a summary repository backed by GORM
func NewSummaryRepository(db *gorm.DB) repo.SummaryRepository {
	return &summaryRepository{db: db}
}

// Upsert inserts the summary, or replaces the existing one for the same
// meeting. Summaries are one-per-meeting; a re-run keeps the stored row's
// ID, which is scanned back into summary.ID.
func (r *summaryRepository) Upsert(ctx context.Context, summary *entities.MeetingSummary) error {
	if summary == nil {
		return errors.New("summary cannot be nil")
	}

	q := `INSERT INTO meeting_summaries (id, meeting_id, content, model_used, prompt_version, input_tokens, output_tokens, total_tokens, created_at, updated_at)
        VALUES (?, ?, ?::jsonb, ?, ?, ?, ?, ?, NOW(), NOW())
        ON CONFLICT (meeting_id) DO UPDATE SET
            content = EXCLUDED.content,
            model_used = EXCLUDED.model_used,
            prompt_version = EXCLUDED.prompt_version,
            input_tokens = EXCLUDED.input_tokens,
            output_tokens = EXCLUDED.output_tokens,
            total_tokens = EXCLUDED.total_tokens,
            updated_at = NOW()
        RETURNING id`

	row := r.db.WithContext(ctx).Raw(q,
		summary.ID, summary.MeetingID, string(summary.Content),
		summary.ModelUsed, summary.PromptVersion,
		summary.InputTokens, summary.OutputTokens, summary.TotalTokens,
	).Row()
	if err := row.Scan(&summary.ID); err != nil {
		return fmt.Errorf("failed to upsert summary: %w", err)
	}
	return nil
}

func (r *summaryRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.MeetingSummary, error) {
	var summary entities.MeetingSummary
	if err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrSummaryNotFound
		}
		return nil, fmt.Errorf("failed to find summary: %w", err)
	}
	return &summary, nil
}
