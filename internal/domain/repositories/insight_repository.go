package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
)

// InsightTemplateRepository defines persistence operations for insight
// templates. The catalog mixes built-in rows seeded by migration with
// user-defined ones.
type InsightTemplateRepository interface {
	Create(ctx context.Context, template *entities.InsightTemplate) error
	FindByID(ctx context.Context, id string) (*entities.InsightTemplate, error)
	List(ctx context.Context) ([]*entities.InsightTemplate, error)
}

// InsightResultRepository defines persistence operations for extracted
// insights
type InsightResultRepository interface {
	Create(ctx context.Context, result *entities.InsightResult) error
	ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.InsightResult, error)
}
