package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
)

// SummaryJobRepository defines persistence operations for summarization
// job rows. Attempt counting and status transitions are owned by the
// queue worker, not the engine.
type SummaryJobRepository interface {
	Create(ctx context.Context, job *entities.SummaryJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.SummaryJob, error)
	MarkRunning(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
	IncrementAttempts(ctx context.Context, id uuid.UUID) (int, error)
}
