package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	"github.com/meetingflow-team/meetingflow/internal/domain/repositories"
)

const (
	insightMaxTokens   = 2048
	insightTemperature = 0.3
	templateCacheTTL   = 5 * time.Minute
)

// TemplateCache holds resolved insight templates between extractions.
// cache.MemoryStore satisfies it; a nil cache disables caching.
type TemplateCache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

// InsightsService runs insight templates against meeting transcripts
// and manages the template catalog. Extractions are single-call: no
// chunking, no merge.
type InsightsService interface {
	ExtractInsight(ctx context.Context, meetingID uuid.UUID, templateID string) (*entities.InsightResult, error)
	ExtractMultipleInsights(ctx context.Context, meetingID uuid.UUID, templateIDs []string) ([]*entities.InsightResult, error)
	ListTemplates(ctx context.Context) ([]*entities.InsightTemplate, error)
	CreateTemplate(ctx context.Context, template *entities.InsightTemplate) error
	ListResults(ctx context.Context, meetingID uuid.UUID) ([]*entities.InsightResult, error)
}

type insightsService struct {
	generator   *Generator
	templates   repositories.InsightTemplateRepository
	results     repositories.InsightResultRepository
	transcripts repositories.TranscriptRepository
	cache       TemplateCache
	logger      *zap.Logger
}

// NewInsightsService creates the insights service.
func NewInsightsService(
	generator *Generator,
	templates repositories.InsightTemplateRepository,
	results repositories.InsightResultRepository,
	transcripts repositories.TranscriptRepository,
	templateCache TemplateCache,
	logger *zap.Logger,
) InsightsService {
	return &insightsService{
		generator:   generator,
		templates:   templates,
		results:     results,
		transcripts: transcripts,
		cache:       templateCache,
		logger:      logger,
	}
}

func (s *insightsService) ExtractInsight(ctx context.Context, meetingID uuid.UUID, templateID string) (*entities.InsightResult, error) {
	start := time.Now()

	template, err := s.template(ctx, templateID)
	if err != nil {
		return nil, err
	}

	transcript, err := s.transcripts.FindByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(transcript.Text) == "" {
		return nil, entities.ErrEmptyTranscript
	}

	res, err := s.generator.GenerateWithFallback(ctx,
		BuildInsightPrompt(template, transcript.Text),
		CountWords(transcript.Text),
		GenerateOptions{
			SystemPrompt: insightSystemPrompt,
			MaxTokens:    insightMaxTokens,
			Temperature:  insightTemperature,
			JSONMode:     true,
		},
	)
	if err != nil {
		return nil, err
	}

	content, err := ParseInsight(res.Completion.Content)
	if err != nil {
		return nil, err
	}

	result := &entities.InsightResult{
		ID:               uuid.New(),
		MeetingID:        meetingID,
		TemplateID:       template.ID,
		TemplateName:     template.Name,
		Content:          datatypes.JSON(content),
		ModelUsed:        res.Selection.Model,
		TokensUsed:       res.Completion.TokensUsed.Total,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		CreatedAt:        time.Now(),
	}
	if err := s.results.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to store insight result: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("💡 Insight extracted",
			zap.String("meeting_id", meetingID.String()),
			zap.String("template_id", template.ID),
			zap.String("model", result.ModelUsed),
			zap.Int("tokens", result.TokensUsed),
		)
	}
	return result, nil
}

// ExtractMultipleInsights runs each template in turn. A failing template
// is logged and skipped; the batch keeps going and returns whatever
// succeeded. Cancellation stops the loop and returns the partial batch.
func (s *insightsService) ExtractMultipleInsights(ctx context.Context, meetingID uuid.UUID, templateIDs []string) ([]*entities.InsightResult, error) {
	results := make([]*entities.InsightResult, 0, len(templateIDs))
	for _, id := range templateIDs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := s.ExtractInsight(ctx, meetingID, id)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("❌ Insight extraction failed, continuing batch",
					zap.String("meeting_id", meetingID.String()),
					zap.String("template_id", id),
					zap.Error(err),
				)
			}
			continue
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *insightsService) ListTemplates(ctx context.Context) ([]*entities.InsightTemplate, error) {
	return s.templates.List(ctx)
}

func (s *insightsService) CreateTemplate(ctx context.Context, template *entities.InsightTemplate) error {
	if template.ID == "" {
		template.ID = templateSlug(template.Name)
	}
	if template.ID == "" {
		return fmt.Errorf("template needs a name or an id")
	}
	if template.OutputSchema == "" {
		template.OutputSchema = entities.InsightSchemaJSON
	}
	if !entities.ValidInsightSchema(string(template.OutputSchema)) {
		return fmt.Errorf("unknown output schema %q", template.OutputSchema)
	}

	if _, err := s.templates.FindByID(ctx, template.ID); err == nil {
		return entities.ErrTemplateExists
	}
	if err := s.templates.Create(ctx, template); err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(templateCacheKey(template.ID), template, templateCacheTTL)
	}
	return nil
}

func (s *insightsService) ListResults(ctx context.Context, meetingID uuid.UUID) ([]*entities.InsightResult, error) {
	return s.results.ListByMeetingID(ctx, meetingID)
}

// template resolves an id through the cache, falling back to the
// repository on a miss.
func (s *insightsService) template(ctx context.Context, id string) (*entities.InsightTemplate, error) {
	key := templateCacheKey(id)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if template, ok := cached.(*entities.InsightTemplate); ok {
				return template, nil
			}
		}
	}
	template, err := s.templates.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(key, template, templateCacheTTL)
	}
	return template, nil
}

func templateCacheKey(id string) string {
	return "insight_template:" + id
}

// templateSlug derives a catalog id from a human name: lower-cased,
// alphanumeric runs joined by single dashes.
func templateSlug(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
