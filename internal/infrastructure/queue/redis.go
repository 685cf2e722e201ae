package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	"github.com/meetingflow-team/meetingflow/internal/domain/repositories"
)

// DefaultKey is the Redis list holding pending summarization jobs.
const DefaultKey = "meetingflow:jobs:summarize"

const defaultMaxAttempts = 3

// EnqueueOptions carries the optional knobs of a summarization request.
type EnqueueOptions struct {
	PromptVersion string
	CustomPrompt  string
	ForceModel    string
	MaxAttempts   int
}

// Queue is a Redis list-backed job queue for summarization requests.
// Enqueue writes a tracking row first, then pushes the payload; a consumer
// that sees the payload can always resolve the row.
type Queue struct {
	client      *redis.Client
	jobs        repositories.SummaryJobRepository
	key         string
	maxAttempts int
	logger      *zap.Logger
}

// NewQueue creates a queue on the given Redis client. An empty key falls
// back to DefaultKey; maxAttempts <= 0 falls back to 3 deliveries.
func NewQueue(client *redis.Client, jobs repositories.SummaryJobRepository, key string, maxAttempts int, logger *zap.Logger) *Queue {
	if key == "" {
		key = DefaultKey
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Queue{
		client:      client,
		jobs:        jobs,
		key:         key,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Enqueue records a queued SummaryJob row and pushes its payload onto the
// list. Returns the created job so callers can report its ID.
func (q *Queue) Enqueue(ctx context.Context, meetingID, transcriptID uuid.UUID, opts EnqueueOptions) (*entities.SummaryJob, error) {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = q.maxAttempts
	}

	job := entities.NewSummaryJob(meetingID, transcriptID, maxAttempts)
	job.PromptVersion = opts.PromptVersion
	job.CustomPrompt = opts.CustomPrompt
	job.ForceModel = opts.ForceModel

	if err := q.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to record summary job: %w", err)
	}

	payload := entities.SummaryJobPayload{
		JobID:         job.ID,
		MeetingID:     meetingID,
		TranscriptID:  transcriptID,
		PromptVersion: opts.PromptVersion,
		CustomPrompt:  opts.CustomPrompt,
		ForceModel:    opts.ForceModel,
	}
	if err := q.Push(ctx, payload); err != nil {
		q.markUnqueued(ctx, job.ID, err)
		return nil, err
	}

	if q.logger != nil {
		q.logger.Info("📬 Summary job queued",
			zap.String("job_id", job.ID.String()),
			zap.String("meeting_id", meetingID.String()),
		)
	}
	return job, nil
}

// Push serializes the payload and LPUSHes it. Used for the initial enqueue
// and for worker redelivery.
func (q *Queue) Push(ctx context.Context, payload entities.SummaryJobPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode job payload: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("failed to push job payload: %w", err)
	}
	return nil
}

// Pop blocks up to timeout for the next payload. Returns (nil, nil) when
// the timeout elapses with nothing queued.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*entities.SummaryJobPayload, error) {
	values, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop job payload: %w", err)
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of %d values", len(values))
	}

	var payload entities.SummaryJobPayload
	if err := json.Unmarshal([]byte(values[1]), &payload); err != nil {
		return nil, fmt.Errorf("malformed job payload: %w", err)
	}
	return &payload, nil
}

// Depth reports how many payloads are waiting.
func (q *Queue) Depth(ctx context.Context) (int64, error) {
	depth, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read queue depth: %w", err)
	}
	return depth, nil
}

// markUnqueued flags the tracking row when the push itself failed, so the
// row does not sit in queued forever with nothing on the list.
func (q *Queue) markUnqueued(ctx context.Context, jobID uuid.UUID, cause error) {
	if err := q.jobs.MarkFailed(ctx, jobID, "enqueue failed: "+cause.Error()); err != nil && q.logger != nil {
		q.logger.Error("❌ Failed to mark unqueued job",
			zap.String("job_id", jobID.String()),
			zap.Error(err),
		)
	}
}
