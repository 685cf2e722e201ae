package queue

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	"github.com/meetingflow-team/meetingflow/internal/domain/repositories"
	"github.com/meetingflow-team/meetingflow/internal/usecase/ai"
	"github.com/meetingflow-team/meetingflow/pkg/jobrun"
)

const defaultPopTimeout = 5 * time.Second

// WorkerPool consumes summarization jobs from the queue and drives them
// through the engine. Attempt counting and job row transitions happen here;
// the engine only reports success or failure.
type WorkerPool struct {
	queue      *Queue
	jobs       repositories.SummaryJobRepository
	engine     ai.Service
	logger     *zap.Logger
	count      int
	popTimeout time.Duration
	jobTimeout time.Duration

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWorkerPool creates a pool of count workers. Zero timeouts fall back
// to defaults (5s poll, jobrun.DefaultTimeout per job).
func NewWorkerPool(queue *Queue, jobs repositories.SummaryJobRepository, engine ai.Service, count int, popTimeout, jobTimeout time.Duration, logger *zap.Logger) *WorkerPool {
	if count < 1 {
		count = 1
	}
	if popTimeout <= 0 {
		popTimeout = defaultPopTimeout
	}
	return &WorkerPool{
		queue:      queue,
		jobs:       jobs,
		engine:     engine,
		logger:     logger,
		count:      count,
		popTimeout: popTimeout,
		jobTimeout: jobTimeout,
		stopChan:   make(chan struct{}),
	}
}

// Start launches the workers. Call Stop to drain them.
func (p *WorkerPool) Start() {
	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
	if p.logger != nil {
		p.logger.Info("🚀 Summary workers started", zap.Int("count", p.count))
	}
}

// Stop signals the workers and waits for in-flight jobs to finish.
func (p *WorkerPool) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
	p.wg.Wait()
	if p.logger != nil {
		p.logger.Info("Summary workers stopped")
	}
}

func (p *WorkerPool) run(workerID int) {
	defer p.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-p.stopChan
		cancel()
	}()

	// Transient Redis failures back off exponentially instead of spinning.
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0

	for {
		select {
		case <-p.stopChan:
			return
		default:
		}

		payload, err := p.queue.Pop(ctx, p.popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			wait := bo.NextBackOff()
			if p.logger != nil {
				p.logger.Warn("❌ Queue pop failed, backing off",
					zap.Int("worker", workerID),
					zap.Duration("wait", wait),
					zap.Error(err),
				)
			}
			select {
			case <-time.After(wait):
			case <-p.stopChan:
				return
			}
			continue
		}
		bo.Reset()
		if payload == nil {
			continue
		}

		p.handle(ctx, workerID, *payload)
	}
}

// handle runs one delivery. Bookkeeping after the job uses the worker's
// long-lived context: an expired job deadline must not block the failure
// from being recorded.
func (p *WorkerPool) handle(parent context.Context, workerID int, payload entities.SummaryJobPayload) {
	job, err := p.jobs.FindByID(parent, payload.JobID)
	if err != nil {
		if p.logger != nil {
			p.logger.Error("❌ Dropping payload with no tracking row",
				zap.String("job_id", payload.JobID.String()),
				zap.Error(err),
			)
		}
		return
	}

	attempt, err := p.jobs.IncrementAttempts(parent, payload.JobID)
	if err != nil {
		if p.logger != nil {
			p.logger.Error("❌ Failed to count delivery attempt",
				zap.String("job_id", payload.JobID.String()),
				zap.Error(err),
			)
		}
		return
	}
	if err := p.jobs.MarkRunning(parent, payload.JobID); err != nil && p.logger != nil {
		p.logger.Warn("Failed to mark job running",
			zap.String("job_id", payload.JobID.String()),
			zap.Error(err),
		)
	}

	ctx, cancel := jobrun.Begin(parent, payload.JobID, workerID, attempt, p.jobTimeout)
	defer cancel()

	var result *entities.SummaryJobResult
	runErr := jobrun.Run(ctx, func(ctx context.Context) error {
		var perr error
		result, perr = p.engine.ProcessSummaryJob(ctx, payload)
		return perr
	})

	if runErr == nil {
		if err := p.jobs.MarkCompleted(parent, payload.JobID); err != nil && p.logger != nil {
			p.logger.Warn("Failed to mark job completed",
				zap.String("job_id", payload.JobID.String()),
				zap.Error(err),
			)
		}
		if p.logger != nil {
			p.logger.Info("✅ Summary job completed",
				zap.String("job_id", payload.JobID.String()),
				zap.Int("worker", workerID),
				zap.Int("attempt", attempt),
				zap.String("model", result.ModelUsed),
				zap.Int("tokens", result.TokensUsed),
			)
		}
		return
	}

	if err := p.jobs.MarkFailed(parent, payload.JobID, runErr.Error()); err != nil && p.logger != nil {
		p.logger.Warn("Failed to mark job failed",
			zap.String("job_id", payload.JobID.String()),
			zap.Error(err),
		)
	}

	// Fatal errors cannot heal on redelivery; the engine already recorded
	// the stage that failed on the meeting.
	if ai.IsFatal(runErr) {
		if p.logger != nil {
			p.logger.Error("❌ Summary job failed terminally",
				zap.String("job_id", payload.JobID.String()),
				zap.Int("attempt", attempt),
				zap.Error(runErr),
			)
		}
		return
	}

	if attempt < job.MaxAttempts {
		if p.logger != nil {
			p.logger.Warn("🔄 Requeueing summary job",
				zap.String("job_id", payload.JobID.String()),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", job.MaxAttempts),
				zap.Error(runErr),
			)
		}
		if err := p.queue.Push(parent, payload); err != nil {
			if p.logger != nil {
				p.logger.Error("❌ Failed to requeue job, marking exhausted",
					zap.String("job_id", payload.JobID.String()),
					zap.Error(err),
				)
			}
			p.exhaust(parent, payload, runErr)
		}
		return
	}

	p.exhaust(parent, payload, runErr)
}

func (p *WorkerPool) exhaust(ctx context.Context, payload entities.SummaryJobPayload, cause error) {
	if err := p.engine.HandleJobFailure(ctx, payload, cause); err != nil && p.logger != nil {
		p.logger.Error("❌ Failed to record exhausted job",
			zap.String("job_id", payload.JobID.String()),
			zap.Error(err),
		)
	}
}
