package jobrun

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	keyJobID     contextKey = "job_id"
	keyWorkerID  contextKey = "worker_id"
	keyAttempt   contextKey = "attempt"
	keyStartTime contextKey = "start_time"
)

// DefaultTimeout bounds a single job execution. A hung provider call must
// not pin a worker forever.
const DefaultTimeout = 5 * time.Minute

// Metadata holds the identity of one job delivery.
type Metadata struct {
	JobID     uuid.UUID
	WorkerID  int
	Attempt   int
	StartTime time.Time
}

// Begin derives a deadline-bounded context carrying the delivery's identity.
// A timeout of zero or below falls back to DefaultTimeout.
func Begin(parent context.Context, jobID uuid.UUID, workerID, attempt int, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	ctx = context.WithValue(ctx, keyJobID, jobID)
	ctx = context.WithValue(ctx, keyWorkerID, workerID)
	ctx = context.WithValue(ctx, keyAttempt, attempt)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())
	return ctx, cancel
}

// Run executes fn, converting a panic into an error so one bad job cannot
// take down the worker pool.
func Run(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()

	if ctx.Err() != nil {
		return fmt.Errorf("context done before job execution: %w", ctx.Err())
	}
	return fn(ctx)
}

// JobID extracts the job ID stamped by Begin.
func JobID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyJobID).(uuid.UUID)
	return id, ok
}

// WorkerID extracts the worker ID, or -1 when absent.
func WorkerID(ctx context.Context) int {
	id, ok := ctx.Value(keyWorkerID).(int)
	if !ok {
		return -1
	}
	return id
}

// Attempt extracts the delivery attempt number, or 0 when absent.
func Attempt(ctx context.Context) int {
	attempt, ok := ctx.Value(keyAttempt).(int)
	if !ok {
		return 0
	}
	return attempt
}

// StartTime extracts the moment Begin was called.
func StartTime(ctx context.Context) (time.Time, bool) {
	start, ok := ctx.Value(keyStartTime).(time.Time)
	return start, ok
}

// FromContext collects all job metadata in one call.
func FromContext(ctx context.Context) Metadata {
	jobID, _ := JobID(ctx)
	start, _ := StartTime(ctx)
	return Metadata{
		JobID:     jobID,
		WorkerID:  WorkerID(ctx),
		Attempt:   Attempt(ctx),
		StartTime: start,
	}
}
