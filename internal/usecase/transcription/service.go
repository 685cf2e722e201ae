package transcription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	"github.com/meetingflow-team/meetingflow/internal/domain/repositories"
	"github.com/meetingflow-team/meetingflow/internal/infrastructure/external/assemblyai"
	"github.com/meetingflow-team/meetingflow/internal/infrastructure/queue"
	"github.com/meetingflow-team/meetingflow/internal/usecase/ai"
)

// ObjectStore is the slice of object storage this service needs.
type ObjectStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	RemoveFile(ctx context.Context, objectName string) error
}

// Transcriber submits audio for batch transcription and fetches results.
type Transcriber interface {
	Submit(ctx context.Context, audioURL string) (string, error)
	Fetch(ctx context.Context, externalID string) (*assemblyai.Result, error)
}

// SummaryQueue enqueues summarization jobs for finished transcripts.
type SummaryQueue interface {
	Enqueue(ctx context.Context, meetingID, transcriptID uuid.UUID, opts queue.EnqueueOptions) (*entities.SummaryJob, error)
}

// Service handles recording upload and batch transcription ingestion.
type Service struct {
	recordings    repositories.RecordingRepository
	transcripts   repositories.TranscriptRepository
	meetings      repositories.MeetingRepository
	store         ObjectStore
	transcriber   Transcriber
	summaryQueue  SummaryQueue
	urlExpiry     time.Duration
	autoSummarize bool
	logger        *zap.Logger
}

// NewService creates the transcription service. summaryQueue may be nil;
// auto-summarize is then a no-op.
func NewService(
	recordings repositories.RecordingRepository,
	transcripts repositories.TranscriptRepository,
	meetings repositories.MeetingRepository,
	store ObjectStore,
	transcriber Transcriber,
	summaryQueue SummaryQueue,
	urlExpiry time.Duration,
	autoSummarize bool,
	logger *zap.Logger,
) *Service {
	if urlExpiry <= 0 {
		urlExpiry = 2 * time.Hour
	}
	return &Service{
		recordings:    recordings,
		transcripts:   transcripts,
		meetings:      meetings,
		store:         store,
		transcriber:   transcriber,
		summaryQueue:  summaryQueue,
		urlExpiry:     urlExpiry,
		autoSummarize: autoSummarize,
		logger:        logger,
	}
}

// UploadRecordingInput carries one uploaded audio file.
type UploadRecordingInput struct {
	MeetingID   uuid.UUID
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// UploadRecording stores the audio in object storage and records it.
func (s *Service) UploadRecording(ctx context.Context, input UploadRecordingInput) (*entities.Recording, error) {
	if _, err := s.meetings.FindByID(ctx, input.MeetingID); err != nil {
		return nil, err
	}

	recordingID := uuid.New()
	objectKey := fmt.Sprintf("recordings/%s/%s%s", input.MeetingID, recordingID, path.Ext(input.FileName))

	if err := s.store.UploadFile(ctx, objectKey, input.Body, input.SizeBytes, input.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store recording: %w", err)
	}

	recording := entities.NewRecording(input.MeetingID, objectKey, input.FileName, input.ContentType, input.SizeBytes)
	recording.ID = recordingID
	if err := s.recordings.Create(ctx, recording); err != nil {
		// Do not leave an orphaned object behind the failed row.
		if rerr := s.store.RemoveFile(ctx, objectKey); rerr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to clean up stored recording",
				zap.String("object_key", objectKey),
				zap.Error(rerr),
			)
		}
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("🎙 Recording uploaded",
			zap.String("recording_id", recording.ID.String()),
			zap.String("meeting_id", input.MeetingID.String()),
			zap.Int64("size_bytes", input.SizeBytes),
		)
	}
	return recording, nil
}

// StartTranscription submits a stored recording for batch transcription.
// The provider downloads the audio through a presigned URL and calls the
// webhook when done.
func (s *Service) StartTranscription(ctx context.Context, recordingID uuid.UUID) (*entities.Recording, error) {
	recording, err := s.recordings.FindByID(ctx, recordingID)
	if err != nil {
		return nil, err
	}

	audioURL, err := s.store.PresignedURL(ctx, recording.ObjectKey, s.urlExpiry)
	if err != nil {
		return nil, err
	}

	externalID, err := s.transcriber.Submit(ctx, audioURL)
	if err != nil {
		recording.MarkAsFailed(err.Error())
		if uerr := s.recordings.Update(ctx, recording); uerr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to record submission failure",
				zap.String("recording_id", recording.ID.String()),
				zap.Error(uerr),
			)
		}
		return nil, err
	}

	recording.MarkAsTranscribing(externalID)
	if err := s.recordings.Update(ctx, recording); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("🎧 Transcription submitted",
			zap.String("recording_id", recording.ID.String()),
			zap.String("external_id", externalID),
		)
	}
	return recording, nil
}

// HandleWebhook ingests a finished transcription. The caller has already
// authenticated the request; this resolves the recording, fetches the
// transcript, stores it, and optionally queues summarization.
func (s *Service) HandleWebhook(ctx context.Context, payload assemblyai.WebhookPayload) error {
	recording, err := s.recordings.FindByExternalID(ctx, payload.TranscriptID)
	if err != nil {
		return err
	}

	if !strings.EqualFold(payload.Status, "completed") {
		recording.MarkAsFailed("transcription " + payload.Status)
		if err := s.recordings.Update(ctx, recording); err != nil {
			return err
		}
		if s.logger != nil {
			s.logger.Warn("❌ Transcription failed upstream",
				zap.String("recording_id", recording.ID.String()),
				zap.String("status", payload.Status),
			)
		}
		return nil
	}

	// Webhook deliveries are at-least-once; a transcript already stored
	// under this external id means a duplicate.
	if existing, err := s.transcripts.FindByExternalID(ctx, payload.TranscriptID); err == nil {
		if s.logger != nil {
			s.logger.Info("Transcript already ingested, skipping duplicate webhook",
				zap.String("transcript_id", existing.ID.String()),
				zap.String("external_id", payload.TranscriptID),
			)
		}
		return nil
	} else if !errors.Is(err, entities.ErrTranscriptNotFound) {
		return err
	}

	result, err := s.transcriber.Fetch(ctx, payload.TranscriptID)
	if err != nil {
		recording.MarkAsFailed(err.Error())
		if uerr := s.recordings.Update(ctx, recording); uerr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to record fetch failure",
				zap.String("recording_id", recording.ID.String()),
				zap.Error(uerr),
			)
		}
		return err
	}

	transcript := entities.NewTranscript(recording.MeetingID, result.Text, entities.TranscriptSourceAssemblyAI)
	transcript.ExternalID = &payload.TranscriptID
	transcript.Language = result.Language
	transcript.Segments = result.Segments
	transcript.HasSpeakers = result.SpeakerCount > 0
	transcript.SpeakerCount = result.SpeakerCount
	transcript.ConfidenceScore = result.ConfidenceScore
	transcript.WordCount = ai.CountWords(result.Text)

	if err := s.transcripts.Create(ctx, transcript); err != nil {
		return err
	}

	recording.MarkAsTranscribed()
	if err := s.recordings.Update(ctx, recording); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("📝 Transcript ingested",
			zap.String("transcript_id", transcript.ID.String()),
			zap.String("meeting_id", recording.MeetingID.String()),
			zap.Int("word_count", transcript.WordCount),
			zap.Int("speakers", transcript.SpeakerCount),
		)
	}

	if s.autoSummarize && s.summaryQueue != nil {
		job, err := s.summaryQueue.Enqueue(ctx, recording.MeetingID, transcript.ID, queue.EnqueueOptions{})
		if err != nil {
			// The transcript is stored; summarization can be requested
			// again through the API.
			if s.logger != nil {
				s.logger.Error("❌ Auto-summarize enqueue failed",
					zap.String("meeting_id", recording.MeetingID.String()),
					zap.Error(err),
				)
			}
			return nil
		}
		if s.logger != nil {
			s.logger.Info("📬 Auto-queued summarization",
				zap.String("job_id", job.ID.String()),
				zap.String("meeting_id", recording.MeetingID.String()),
			)
		}
	}
	return nil
}
