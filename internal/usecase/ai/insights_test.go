package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	"github.com/meetingflow-team/meetingflow/pkg/llm"
)

type fakeTemplateRepo struct {
	templates map[string]*entities.InsightTemplate
	finds     int
}

func newFakeTemplateRepo(templates ...*entities.InsightTemplate) *fakeTemplateRepo {
	repo := &fakeTemplateRepo{templates: make(map[string]*entities.InsightTemplate)}
	for _, tpl := range templates {
		repo.templates[tpl.ID] = tpl
	}
	return repo
}

func (f *fakeTemplateRepo) Create(_ context.Context, tpl *entities.InsightTemplate) error {
	f.templates[tpl.ID] = tpl
	return nil
}

func (f *fakeTemplateRepo) FindByID(_ context.Context, id string) (*entities.InsightTemplate, error) {
	f.finds++
	tpl, ok := f.templates[id]
	if !ok {
		return nil, entities.ErrTemplateNotFound
	}
	return tpl, nil
}

func (f *fakeTemplateRepo) List(_ context.Context) ([]*entities.InsightTemplate, error) {
	out := make([]*entities.InsightTemplate, 0, len(f.templates))
	for _, tpl := range f.templates {
		out = append(out, tpl)
	}
	return out, nil
}

type fakeResultRepo struct {
	results []*entities.InsightResult
}

func (f *fakeResultRepo) Create(_ context.Context, r *entities.InsightResult) error {
	f.results = append(f.results, r)
	return nil
}

func (f *fakeResultRepo) ListByMeetingID(_ context.Context, meetingID uuid.UUID) ([]*entities.InsightResult, error) {
	out := []*entities.InsightResult{}
	for _, r := range f.results {
		if r.MeetingID == meetingID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeTemplateCache struct {
	items map[string]any
}

func newFakeTemplateCache() *fakeTemplateCache {
	return &fakeTemplateCache{items: make(map[string]any)}
}

func (c *fakeTemplateCache) Get(key string) (any, bool) {
	v, ok := c.items[key]
	return v, ok
}

func (c *fakeTemplateCache) Set(key string, value any, _ time.Duration) {
	c.items[key] = value
}

func keyQuotesTemplate() *entities.InsightTemplate {
	return &entities.InsightTemplate{
		ID:           "key-quotes",
		Name:         "Key Quotes",
		Description:  "Pull the most quotable lines from the meeting.",
		PromptBody:   "List the five most striking direct quotes.",
		OutputSchema: entities.InsightSchemaList,
		BuiltIn:      true,
	}
}

type insightsFixture struct {
	svc         InsightsService
	templates   *fakeTemplateRepo
	results     *fakeResultRepo
	transcripts *fakeTranscriptRepo
	cache       *fakeTemplateCache
	meetingID   uuid.UUID
}

func newInsightsFixture(clients []llm.Client, templates ...*entities.InsightTemplate) *insightsFixture {
	registry := llm.NewRegistry(clients...)
	selector := NewSelector(registry, 5000, testModels)
	generator := NewGenerator(selector, registry, 3, time.Millisecond, nil)
	generator.sleep = func(context.Context, time.Duration) error { return nil }

	f := &insightsFixture{
		templates:   newFakeTemplateRepo(templates...),
		results:     &fakeResultRepo{},
		transcripts: newFakeTranscriptRepo(),
		cache:       newFakeTemplateCache(),
		meetingID:   uuid.New(),
	}
	transcript := entities.NewTranscript(f.meetingID, wordsText(2000), entities.TranscriptSourceUpload)
	f.transcripts.byID[transcript.ID] = transcript

	f.svc = NewInsightsService(generator, f.templates, f.results, f.transcripts, f.cache, nil)
	return f
}

func TestExtractInsight(t *testing.T) {
	openai := &fakeClient{provider: llm.ProviderOpenAI, script: []fakeResponse{
		{result: textResult(`{"items": ["we cannot slip the date again"]}`, 80)},
	}}
	f := newInsightsFixture([]llm.Client{openai}, keyQuotesTemplate())

	result, err := f.svc.ExtractInsight(context.Background(), f.meetingID, "key-quotes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TemplateID != "key-quotes" || result.TemplateName != "Key Quotes" {
		t.Errorf("template identity lost: %+v", result)
	}
	if result.ModelUsed != testModels[llm.ProviderOpenAI] || result.TokensUsed != 80 {
		t.Errorf("provenance off: model=%q tokens=%d", result.ModelUsed, result.TokensUsed)
	}

	var content struct {
		Items []string `json:"items"`
	}
	if err := json.Unmarshal(result.Content, &content); err != nil {
		t.Fatalf("content does not decode: %v", err)
	}
	if len(content.Items) != 1 {
		t.Errorf("unexpected content %+v", content)
	}

	if len(f.results.results) != 1 {
		t.Fatalf("result must be persisted, got %d rows", len(f.results.results))
	}

	prompt := openai.calls[0].Prompt
	if !strings.Contains(prompt, "List the five most striking direct quotes.") {
		t.Errorf("template body missing from prompt")
	}
}

func TestExtractInsightCachesTemplate(t *testing.T) {
	openai := &fakeClient{provider: llm.ProviderOpenAI}
	f := newInsightsFixture([]llm.Client{openai}, keyQuotesTemplate())

	for i := 0; i < 3; i++ {
		if _, err := f.svc.ExtractInsight(context.Background(), f.meetingID, "key-quotes"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if f.templates.finds != 1 {
		t.Fatalf("expected one repository lookup with a warm cache, got %d", f.templates.finds)
	}
}

func TestExtractInsightUnknownTemplate(t *testing.T) {
	f := newInsightsFixture([]llm.Client{&fakeClient{provider: llm.ProviderOpenAI}})

	_, err := f.svc.ExtractInsight(context.Background(), f.meetingID, "missing")
	if !errors.Is(err, entities.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if !IsFatal(err) {
		t.Errorf("an unknown template cannot heal on retry")
	}
}

func TestExtractInsightEmptyTranscript(t *testing.T) {
	f := newInsightsFixture([]llm.Client{&fakeClient{provider: llm.ProviderOpenAI}}, keyQuotesTemplate())
	for _, tr := range f.transcripts.byID {
		tr.Text = "  "
	}

	_, err := f.svc.ExtractInsight(context.Background(), f.meetingID, "key-quotes")
	if !errors.Is(err, entities.ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}
}

func TestExtractMultipleInsightsContinuesPastFailures(t *testing.T) {
	badRequest := llm.NewAPIError(llm.ProviderOpenAI, 400, "invalid request")
	openai := &fakeClient{provider: llm.ProviderOpenAI, script: []fakeResponse{
		{err: badRequest},
		{result: textResult(`{"text": "mostly positive"}`, 40)},
	}}
	risks := &entities.InsightTemplate{ID: "risks", Name: "Risks", PromptBody: "List the risks raised.", OutputSchema: entities.InsightSchemaList}
	mood := &entities.InsightTemplate{ID: "mood", Name: "Mood", PromptBody: "Describe the room's mood.", OutputSchema: entities.InsightSchemaText}
	f := newInsightsFixture([]llm.Client{openai}, risks, mood)

	results, err := f.svc.ExtractMultipleInsights(context.Background(), f.meetingID, []string{"risks", "mood"})
	if err != nil {
		t.Fatalf("a failing template must not fail the batch: %v", err)
	}
	if len(results) != 1 || results[0].TemplateID != "mood" {
		t.Fatalf("expected the surviving extraction only, got %+v", results)
	}
}

func TestExtractMultipleInsightsCanceled(t *testing.T) {
	f := newInsightsFixture([]llm.Client{&fakeClient{provider: llm.ProviderOpenAI}}, keyQuotesTemplate())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := f.svc.ExtractMultipleInsights(ctx, f.meetingID, []string{"key-quotes"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results after immediate cancellation, got %d", len(results))
	}
}

func TestCreateTemplateDerivesSlug(t *testing.T) {
	f := newInsightsFixture([]llm.Client{&fakeClient{provider: llm.ProviderOpenAI}})

	tpl := &entities.InsightTemplate{Name: "Follow-up Email Draft!", PromptBody: "Draft a follow-up email."}
	if err := f.svc.CreateTemplate(context.Background(), tpl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tpl.ID != "follow-up-email-draft" {
		t.Errorf("slug = %q", tpl.ID)
	}
	if tpl.OutputSchema != entities.InsightSchemaJSON {
		t.Errorf("schema should default to json, got %q", tpl.OutputSchema)
	}

	dup := &entities.InsightTemplate{ID: "follow-up-email-draft", Name: "Other", PromptBody: "x"}
	if err := f.svc.CreateTemplate(context.Background(), dup); !errors.Is(err, entities.ErrTemplateExists) {
		t.Errorf("expected ErrTemplateExists, got %v", err)
	}
}

func TestCreateTemplateRejectsUnknownSchema(t *testing.T) {
	f := newInsightsFixture([]llm.Client{&fakeClient{provider: llm.ProviderOpenAI}})
	tpl := &entities.InsightTemplate{Name: "Weird", PromptBody: "x", OutputSchema: "xml"}
	if err := f.svc.CreateTemplate(context.Background(), tpl); err == nil {
		t.Fatalf("expected rejection of unknown output schema")
	}
}
