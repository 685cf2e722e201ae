package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	"github.com/meetingflow-team/meetingflow/internal/domain/repositories"
	"github.com/meetingflow-team/meetingflow/pkg/jobrun"
	"github.com/meetingflow-team/meetingflow/pkg/llm"
)

// Stage labels recorded in failure metadata. They mirror the states a
// job moves through: loading, summarizing, consolidating, persisting.
const (
	stageLoading       = "loading"
	stageSummarizing   = "summarizing"
	stageConsolidating = "consolidating"
	stagePersisting    = "persisting"
)

const (
	defaultPromptVersion = "v1"
	summaryMaxTokens     = 4096
	summaryTemperature   = 0.2
)

// Tuning carries the generation knobs for summary passes. Zero values
// fall back to the package defaults.
type Tuning struct {
	MaxTokens     int
	Temperature   float64
	PromptVersion string
}

func (t Tuning) maxTokens() int {
	if t.MaxTokens > 0 {
		return t.MaxTokens
	}
	return summaryMaxTokens
}

func (t Tuning) temperature() float64 {
	if t.Temperature > 0 {
		return t.Temperature
	}
	return summaryTemperature
}

func (t Tuning) promptVersion() string {
	if t.PromptVersion != "" {
		return t.PromptVersion
	}
	return defaultPromptVersion
}

// Service runs one summarization job end to end: load the transcript,
// summarize it (chunked when it is large), resolve due dates, persist
// the result and flip statuses. Failures mark the meeting failed and
// are returned to the caller, whose retry policy decides redelivery.
type Service interface {
	ProcessSummaryJob(ctx context.Context, payload entities.SummaryJobPayload) (*entities.SummaryJobResult, error)
	HandleJobFailure(ctx context.Context, payload entities.SummaryJobPayload, jobErr error) error
}

type service struct {
	generator    *Generator
	chunker      *Chunker
	meetings     repositories.MeetingRepository
	transcripts  repositories.TranscriptRepository
	participants repositories.ParticipantRepository
	summaries    repositories.SummaryRepository
	actionItems  repositories.ActionItemRepository
	tuning       Tuning
	logger       *zap.Logger
	now          func() time.Time
}

// NewService creates the summarization service.
func NewService(
	generator *Generator,
	chunker *Chunker,
	meetings repositories.MeetingRepository,
	transcripts repositories.TranscriptRepository,
	participants repositories.ParticipantRepository,
	summaries repositories.SummaryRepository,
	actionItems repositories.ActionItemRepository,
	tuning Tuning,
	logger *zap.Logger,
) Service {
	return &service{
		generator:    generator,
		chunker:      chunker,
		meetings:     meetings,
		transcripts:  transcripts,
		participants: participants,
		summaries:    summaries,
		actionItems:  actionItems,
		tuning:       tuning,
		logger:       logger,
		now:          time.Now,
	}
}

// passOutcome is what a summarization pass hands back to the job driver.
type passOutcome struct {
	output    *entities.SummaryOutput
	tokens    llm.TokenUsage
	modelUsed string
}

func (s *service) ProcessSummaryJob(ctx context.Context, payload entities.SummaryJobPayload) (*entities.SummaryJobResult, error) {
	start := time.Now()

	tctx, meeting, err := s.load(ctx, payload)
	if err != nil {
		return nil, s.fail(ctx, payload.MeetingID, stageLoading, err)
	}

	if err := s.meetings.UpdateStatus(ctx, meeting.ID, entities.MeetingStatusProcessing, nil); err != nil {
		return nil, s.fail(ctx, meeting.ID, stageLoading, fmt.Errorf("failed to mark meeting processing: %w", err))
	}

	override, err := parseOverride(payload.ForceModel)
	if err != nil {
		return nil, s.fail(ctx, meeting.ID, stageLoading, err)
	}

	wordCount := CountWords(tctx.FullText)
	chunked := s.chunker.NeedsChunking(tctx.FullText)
	if s.logger != nil {
		s.logger.Info("🤖 Summarizing meeting",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Int("word_count", wordCount),
			zap.Bool("chunked", chunked),
			zap.Int("attempt", jobrun.Attempt(ctx)),
			zap.String("force_model", payload.ForceModel),
		)
	}

	opts := GenerateOptions{
		Override:     override,
		SystemPrompt: summarySystemPrompt,
		MaxTokens:    s.tuning.maxTokens(),
		Temperature:  s.tuning.temperature(),
		JSONMode:     true,
	}

	var (
		out   passOutcome
		stage string
	)
	if chunked {
		out, stage, err = s.summarizeChunked(ctx, tctx, payload.CustomPrompt, wordCount, opts)
	} else {
		out, stage, err = s.summarizeSinglePass(ctx, tctx, payload.CustomPrompt, wordCount, opts)
	}
	if err != nil {
		return nil, s.fail(ctx, meeting.ID, stage, err)
	}

	items := s.buildActionItems(meeting.ID, out.output.ActionItems)

	promptVersion := payload.PromptVersion
	if promptVersion == "" {
		promptVersion = s.tuning.promptVersion()
	}
	summary, err := entities.NewMeetingSummary(meeting.ID, out.output, out.modelUsed, promptVersion)
	if err != nil {
		return nil, s.fail(ctx, meeting.ID, stagePersisting, err)
	}
	summary.InputTokens = out.tokens.Input
	summary.OutputTokens = out.tokens.Output
	summary.TotalTokens = out.tokens.Total

	if err := s.actionItems.DeleteByMeetingID(ctx, meeting.ID); err != nil {
		return nil, s.fail(ctx, meeting.ID, stagePersisting, fmt.Errorf("failed to delete previous action items: %w", err))
	}
	if len(items) > 0 {
		if err := s.actionItems.CreateBatch(ctx, items); err != nil {
			return nil, s.fail(ctx, meeting.ID, stagePersisting, fmt.Errorf("failed to create action items: %w", err))
		}
	}
	if err := s.summaries.Upsert(ctx, summary); err != nil {
		return nil, s.fail(ctx, meeting.ID, stagePersisting, fmt.Errorf("failed to store summary: %w", err))
	}
	if err := s.meetings.UpdateStatus(ctx, meeting.ID, entities.MeetingStatusCompleted, nil); err != nil {
		return nil, s.fail(ctx, meeting.ID, stagePersisting, fmt.Errorf("failed to mark meeting completed: %w", err))
	}

	result := &entities.SummaryJobResult{
		MeetingID:        meeting.ID,
		SummaryID:        summary.ID,
		ActionItemCount:  len(items),
		TokensUsed:       out.tokens.Total,
		ModelUsed:        out.modelUsed,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
	if s.logger != nil {
		s.logger.Info("✅ Meeting summarized",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("model", out.modelUsed),
			zap.Int("topics", len(out.output.Topics)),
			zap.Int("action_items", result.ActionItemCount),
			zap.Int("tokens", result.TokensUsed),
			zap.Int64("elapsed_ms", result.ProcessingTimeMs),
		)
	}
	return result, nil
}

// HandleJobFailure is invoked by the queue worker once a job has used up
// its delivery attempts. The meeting stays failed until a new job is
// enqueued for it.
func (s *service) HandleJobFailure(ctx context.Context, payload entities.SummaryJobPayload, jobErr error) error {
	if s.logger != nil {
		s.logger.Error("❌ Summary job exhausted its attempts",
			zap.String("job_id", payload.JobID.String()),
			zap.String("meeting_id", payload.MeetingID.String()),
			zap.Error(jobErr),
		)
	}
	metadata := s.failureMetadata("exhausted", jobErr)
	if err := s.meetings.UpdateStatus(ctx, payload.MeetingID, entities.MeetingStatusFailed, metadata); err != nil {
		return fmt.Errorf("failed to mark meeting %s failed: %w", payload.MeetingID, err)
	}
	return nil
}

// load fetches the transcript, meeting and participants and assembles the
// immutable context one job works from.
func (s *service) load(ctx context.Context, payload entities.SummaryJobPayload) (entities.TranscriptContext, *entities.Meeting, error) {
	transcript, err := s.transcripts.FindByID(ctx, payload.TranscriptID)
	if err != nil {
		return entities.TranscriptContext{}, nil, err
	}
	if transcript.MeetingID != payload.MeetingID {
		return entities.TranscriptContext{}, nil, fmt.Errorf("transcript %s does not belong to meeting %s: %w",
			payload.TranscriptID, payload.MeetingID, entities.ErrTranscriptNotFound)
	}
	if strings.TrimSpace(transcript.Text) == "" {
		return entities.TranscriptContext{}, nil, entities.ErrEmptyTranscript
	}

	meeting, err := s.meetings.FindByID(ctx, payload.MeetingID)
	if err != nil {
		return entities.TranscriptContext{}, nil, err
	}

	parts, err := s.participants.ListByMeetingID(ctx, payload.MeetingID)
	if err != nil {
		return entities.TranscriptContext{}, nil, fmt.Errorf("failed to load participants: %w", err)
	}
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, p.Name)
	}

	return entities.TranscriptContext{
		FullText:         transcript.Text,
		MeetingTitle:     meeting.Title,
		ParticipantNames: names,
		DurationSeconds:  meeting.DurationSeconds,
	}, meeting, nil
}

func (s *service) summarizeSinglePass(ctx context.Context, tctx entities.TranscriptContext, customPrompt string, wordCount int, opts GenerateOptions) (passOutcome, string, error) {
	res, err := s.generator.GenerateWithFallback(ctx, BuildSummaryPrompt(tctx, customPrompt), wordCount, opts)
	if err != nil {
		return passOutcome{}, stageSummarizing, err
	}
	output, err := ParseSummary(res.Completion.Content)
	if err != nil {
		return passOutcome{}, stageSummarizing, err
	}
	return passOutcome{
		output:    output,
		tokens:    res.Completion.TokensUsed,
		modelUsed: res.Selection.Model,
	}, "", nil
}

// summarizeChunked runs the map-reduce path: one extraction call per
// chunk, strictly in order, then a single consolidation call over the
// combined partials. Provider selection uses the full-transcript word
// count for every call so all chunks ride the same provider tier.
func (s *service) summarizeChunked(ctx context.Context, tctx entities.TranscriptContext, customPrompt string, wordCount int, opts GenerateOptions) (passOutcome, string, error) {
	chunks := s.chunker.Split(tctx.FullText)

	var tokens llm.TokenUsage
	chunkSummaries := make([]*entities.ChunkSummary, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := s.generator.GenerateWithFallback(ctx, BuildChunkPrompt(chunk, i+1, len(chunks), tctx), wordCount, opts)
		if err != nil {
			return passOutcome{}, stageSummarizing, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		cs, err := ParseChunkSummary(res.Completion.Content)
		if err != nil {
			return passOutcome{}, stageSummarizing, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		tokens.Add(res.Completion.TokensUsed)
		chunkSummaries = append(chunkSummaries, cs)
		if s.logger != nil {
			s.logger.Debug("📝 Chunk summarized",
				zap.Int("chunk", i+1),
				zap.Int("total", len(chunks)),
				zap.Int("topics", len(cs.Topics)),
				zap.Int("tokens", res.Completion.TokensUsed.Total),
			)
		}
	}

	combined := CombineChunkSummaries(chunkSummaries)
	res, err := s.generator.GenerateWithFallback(ctx, BuildConsolidationPrompt(combined, len(chunks), tctx, customPrompt), wordCount, opts)
	if err != nil {
		return passOutcome{}, stageConsolidating, err
	}
	output, err := ParseSummary(res.Completion.Content)
	if err != nil {
		return passOutcome{}, stageConsolidating, err
	}
	tokens.Add(res.Completion.TokensUsed)

	return passOutcome{
		output:    output,
		tokens:    tokens,
		modelUsed: res.Selection.Model,
	}, "", nil
}

// buildActionItems turns validated drafts into rows, resolving spoken
// due-date phrases. A phrase the resolver does not understand is logged
// and the item is kept without a date.
func (s *service) buildActionItems(meetingID uuid.UUID, drafts []entities.ActionItemDraft) []*entities.ActionItem {
	now := s.now()
	items := make([]*entities.ActionItem, 0, len(drafts))
	for _, d := range drafts {
		item := entities.NewActionItem(meetingID, d.Text, entities.ActionItemPriority(d.Priority))
		if d.Assignee != "" {
			assignee := d.Assignee
			item.Assignee = &assignee
		}
		if d.DueDate != "" {
			if due, ok := ParseDueDate(d.DueDate, now); ok {
				item.DueDate = &due
			} else if s.logger != nil {
				s.logger.Warn("📅 Due-date phrase not resolved", zap.String("phrase", d.DueDate))
			}
		}
		items = append(items, item)
	}
	return items
}

// fail marks the meeting failed with stage and message, then returns the
// original error unchanged so the caller's retry policy can classify it.
func (s *service) fail(ctx context.Context, meetingID uuid.UUID, stage string, cause error) error {
	if s.logger != nil {
		s.logger.Error("❌ Summarization failed",
			zap.String("meeting_id", meetingID.String()),
			zap.String("stage", stage),
			zap.Bool("fatal", IsFatal(cause)),
			zap.Error(cause),
		)
	}
	if err := s.meetings.UpdateStatus(ctx, meetingID, entities.MeetingStatusFailed, s.failureMetadata(stage, cause)); err != nil && s.logger != nil {
		s.logger.Error("❌ Failed to record failure status",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
	}
	return cause
}

func (s *service) failureMetadata(stage string, cause error) datatypes.JSON {
	b, _ := json.Marshal(map[string]string{
		"stage":     stage,
		"error":     cause.Error(),
		"failed_at": s.now().UTC().Format(time.RFC3339),
	})
	return datatypes.JSON(b)
}

func parseOverride(forceModel string) (llm.Provider, error) {
	if forceModel == "" {
		return "", nil
	}
	p, ok := llm.ParseProvider(forceModel)
	if !ok {
		return "", &ConfigurationError{Reason: fmt.Sprintf("unknown provider %q", forceModel)}
	}
	return p, nil
}
