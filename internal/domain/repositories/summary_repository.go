package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
)

// SummaryRepository defines persistence operations for meeting summaries.
// Upsert replaces any existing summary for the meeting; summaries are
// one-per-meeting.
type SummaryRepository interface {
	Upsert(ctx context.Context, summary *entities.MeetingSummary) error
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.MeetingSummary, error)
}

// ActionItemRepository defines persistence operations for action items.
// Re-summarization replaces a meeting's items wholesale: DeleteByMeetingID
// then CreateBatch.
type ActionItemRepository interface {
	DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error
	CreateBatch(ctx context.Context, items []*entities.ActionItem) error
	ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.ActionItem, error)
}
