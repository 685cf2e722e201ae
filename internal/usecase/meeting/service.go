package meeting

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	"github.com/meetingflow-team/meetingflow/internal/domain/repositories"
	"github.com/meetingflow-team/meetingflow/internal/infrastructure/queue"
	"github.com/meetingflow-team/meetingflow/internal/usecase/ai"
)

// SummaryQueue enqueues summarization jobs.
type SummaryQueue interface {
	Enqueue(ctx context.Context, meetingID, transcriptID uuid.UUID, opts queue.EnqueueOptions) (*entities.SummaryJob, error)
}

// Service handles meeting business logic: creation, transcript upload,
// and the summarization request flow.
type Service struct {
	meetings     repositories.MeetingRepository
	participants repositories.ParticipantRepository
	transcripts  repositories.TranscriptRepository
	summaries    repositories.SummaryRepository
	actionItems  repositories.ActionItemRepository
	jobs         repositories.SummaryJobRepository
	queue        SummaryQueue
	logger       *zap.Logger
}

// NewService creates a meeting service.
func NewService(
	meetings repositories.MeetingRepository,
	participants repositories.ParticipantRepository,
	transcripts repositories.TranscriptRepository,
	summaries repositories.SummaryRepository,
	actionItems repositories.ActionItemRepository,
	jobs repositories.SummaryJobRepository,
	summaryQueue SummaryQueue,
	logger *zap.Logger,
) *Service {
	return &Service{
		meetings:     meetings,
		participants: participants,
		transcripts:  transcripts,
		summaries:    summaries,
		actionItems:  actionItems,
		jobs:         jobs,
		queue:        summaryQueue,
		logger:       logger,
	}
}

// ParticipantInput is one attendee on a new meeting.
type ParticipantInput struct {
	Name  string
	Email string
	Role  entities.ParticipantRole
}

// CreateMeetingInput carries a new meeting.
type CreateMeetingInput struct {
	Title           string
	DurationSeconds int
	Participants    []ParticipantInput
}

// CreateMeeting creates a meeting with its participant roster.
func (s *Service) CreateMeeting(ctx context.Context, input CreateMeetingInput) (*entities.Meeting, []*entities.Participant, error) {
	meeting := entities.NewMeeting(strings.TrimSpace(input.Title))
	meeting.DurationSeconds = input.DurationSeconds

	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, nil, err
	}

	participants := make([]*entities.Participant, 0, len(input.Participants))
	for _, p := range input.Participants {
		role := p.Role
		if role == "" {
			role = entities.ParticipantRoleAttendee
		}
		participant := entities.NewParticipant(meeting.ID, strings.TrimSpace(p.Name), role)
		participant.Email = p.Email
		participants = append(participants, participant)
	}
	if err := s.participants.CreateBatch(ctx, participants); err != nil {
		return nil, nil, err
	}

	if s.logger != nil {
		s.logger.Info("✅ Meeting created",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Int("participants", len(participants)),
		)
	}
	return meeting, participants, nil
}

// GetMeeting returns a meeting with its participants.
func (s *Service) GetMeeting(ctx context.Context, id uuid.UUID) (*entities.Meeting, []*entities.Participant, error) {
	meeting, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	participants, err := s.participants.ListByMeetingID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return meeting, participants, nil
}

// UploadTranscript stores raw transcript text for a meeting.
func (s *Service) UploadTranscript(ctx context.Context, meetingID uuid.UUID, text, language string) (*entities.Transcript, error) {
	if _, err := s.meetings.FindByID(ctx, meetingID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, entities.ErrEmptyTranscript
	}

	transcript := entities.NewTranscript(meetingID, text, entities.TranscriptSourceUpload)
	transcript.WordCount = ai.CountWords(text)
	transcript.Language = language
	if err := s.transcripts.Create(ctx, transcript); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("📝 Transcript uploaded",
			zap.String("transcript_id", transcript.ID.String()),
			zap.String("meeting_id", meetingID.String()),
			zap.Int("word_count", transcript.WordCount),
		)
	}
	return transcript, nil
}

// RequestSummary queues a summarization job for the meeting's latest
// transcript.
func (s *Service) RequestSummary(ctx context.Context, meetingID uuid.UUID, opts queue.EnqueueOptions) (*entities.SummaryJob, error) {
	if _, err := s.meetings.FindByID(ctx, meetingID); err != nil {
		return nil, err
	}
	transcript, err := s.transcripts.FindByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	return s.queue.Enqueue(ctx, meetingID, transcript.ID, opts)
}

// GetSummary returns the stored summary for a meeting.
func (s *Service) GetSummary(ctx context.Context, meetingID uuid.UUID) (*entities.MeetingSummary, error) {
	return s.summaries.FindByMeetingID(ctx, meetingID)
}

// ListActionItems returns the meeting's extracted action items.
func (s *Service) ListActionItems(ctx context.Context, meetingID uuid.UUID) ([]*entities.ActionItem, error) {
	return s.actionItems.ListByMeetingID(ctx, meetingID)
}

// GetJobStatus returns the tracking row for a summarization job.
func (s *Service) GetJobStatus(ctx context.Context, jobID uuid.UUID) (*entities.SummaryJob, error) {
	return s.jobs.FindByID(ctx, jobID)
}
