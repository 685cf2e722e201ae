package ai

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
)

const validSummaryJSON = `{
	"executiveSummary": "The team aligned on the Q3 launch plan.",
	"topics": [
		{"title": "Launch plan", "summary": "Dates and owners settled.", "keyPoints": ["Beta on July 10"]}
	],
	"actionItems": [
		{"text": "Book the launch review", "assignee": "Mei", "dueDate": "next Friday", "priority": "high"}
	],
	"decisions": ["Launch July 24"],
	"questions": [],
	"sentiment": "positive"
}`

func TestExtractJSONRecoversFencedAndUnfenced(t *testing.T) {
	fenced := "```json\n" + validSummaryJSON + "\n```"
	bare := "```\n" + validSummaryJSON + "\n```"
	prose := "Here is the summary you asked for:\n" + validSummaryJSON + "\nLet me know if you need anything else."

	var want map[string]any
	if err := json.Unmarshal([]byte(validSummaryJSON), &want); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}

	for _, raw := range []string{validSummaryJSON, fenced, bare, prose} {
		doc, err := ExtractJSON(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got map[string]any
		if err := json.Unmarshal([]byte(doc), &got); err != nil {
			t.Fatalf("extracted text does not parse: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("recovered object differs for input %.40q", raw)
		}
	}
}

func TestExtractJSONIgnoresBracesInStrings(t *testing.T) {
	raw := `The result: {"note": "use {curly} and [square] freely", "n": 1} done`
	doc, err := ExtractJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got struct {
		Note string `json:"note"`
		N    int    `json:"n"`
	}
	if err := json.Unmarshal([]byte(doc), &got); err != nil {
		t.Fatalf("extracted text does not parse: %v", err)
	}
	if got.Note != "use {curly} and [square] freely" || got.N != 1 {
		t.Fatalf("unexpected content %+v", got)
	}
}

func TestExtractJSONNoDocument(t *testing.T) {
	_, err := ExtractJSON("I could not produce a summary, sorry.")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Raw == "" {
		t.Errorf("ParseError should carry the raw response")
	}
}

func TestParseSummaryValid(t *testing.T) {
	out, err := ParseSummary(validSummaryJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ExecutiveSummary == "" || len(out.Topics) != 1 {
		t.Fatalf("unexpected output %+v", out)
	}
	if out.Sentiment != entities.SentimentPositive {
		t.Errorf("sentiment = %q, want positive", out.Sentiment)
	}
	if out.Questions == nil {
		t.Errorf("empty questions must decode as an empty slice, not nil")
	}
}

func TestParseSummaryDefaults(t *testing.T) {
	raw := `{"executiveSummary": "Short sync.", "topics": [{"title": "Standup", "summary": "Status round."}]}`
	out, err := ParseSummary(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Sentiment != entities.SentimentNeutral {
		t.Errorf("absent sentiment must default to neutral, got %q", out.Sentiment)
	}
	if out.ActionItems == nil || out.Decisions == nil || out.Questions == nil {
		t.Errorf("absent lists must default to empty slices")
	}
	if out.Topics[0].KeyPoints == nil {
		t.Errorf("absent keyPoints must default to an empty slice")
	}
}

func TestParseSummaryRejectsEmptyTopics(t *testing.T) {
	_, err := ParseSummary(`{"executiveSummary": "x", "topics": []}`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for empty topics, got %v", err)
	}
}

func TestParseSummaryRejectsMissingExecutiveSummary(t *testing.T) {
	_, err := ParseSummary(`{"topics": [{"title": "a", "summary": "b"}]}`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseSummaryNeverCoercesSentiment(t *testing.T) {
	raw := `{"executiveSummary": "x", "topics": [{"title": "a", "summary": "b"}], "sentiment": "angry"}`
	_, err := ParseSummary(raw)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for unknown sentiment, got %v", err)
	}
	if !strings.Contains(parseErr.Reason, "angry") {
		t.Errorf("reason should name the bad value, got %q", parseErr.Reason)
	}
}

func TestParseSummaryNormalizesNullStrings(t *testing.T) {
	raw := `{
		"executiveSummary": "x",
		"topics": [{"title": "a", "summary": "b"}],
		"actionItems": [{"text": "Do it", "assignee": "NULL", "dueDate": "null", "priority": "low"}]
	}`
	out, err := ParseSummary(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ActionItems[0].Assignee != "" || out.ActionItems[0].DueDate != "" {
		t.Fatalf("literal null strings must read as absent: %+v", out.ActionItems[0])
	}
}

func TestParseSummaryRejectsInvalidPriority(t *testing.T) {
	raw := `{
		"executiveSummary": "x",
		"topics": [{"title": "a", "summary": "b"}],
		"actionItems": [{"text": "Do it", "priority": "urgent"}]
	}`
	_, err := ParseSummary(raw)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for unknown priority, got %v", err)
	}
}

func TestParseSummaryRoundTripsEmptySummary(t *testing.T) {
	raw, err := json.Marshal(entities.NewEmptySummary())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := ParseSummary(string(raw)); err != nil {
		t.Fatalf("the empty-summary placeholder must always parse: %v", err)
	}
}

func TestParseChunkSummary(t *testing.T) {
	raw := `{
		"topics": [{"title": "Pricing", "summary": "Tier debate."}],
		"actionItems": [],
		"keyQuotes": ["we cannot raise prices twice in one year"]
	}`
	out, err := ParseChunkSummary(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Topics) != 1 || len(out.KeyQuotes) != 1 {
		t.Fatalf("unexpected output %+v", out)
	}
	if out.Decisions == nil || out.Questions == nil {
		t.Errorf("absent lists must default to empty slices")
	}
}

func TestParseChunkSummaryAllowsZeroTopics(t *testing.T) {
	out, err := ParseChunkSummary(`{}`)
	if err != nil {
		t.Fatalf("a chunk may legitimately extract nothing: %v", err)
	}
	if out.Topics == nil || out.ActionItems == nil || out.KeyQuotes == nil {
		t.Fatalf("all lists must be non-nil: %+v", out)
	}
}

func TestParseActionItemsBareArray(t *testing.T) {
	raw := `[{"text": "Send notes", "priority": "medium"}]`
	items, err := ParseActionItems(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Text != "Send notes" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestParseActionItemsEnvelope(t *testing.T) {
	raw := `{"actionItems": [{"text": "Send notes", "priority": "low"}]}`
	items, err := ParseActionItems(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Priority != "low" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestParseActionItemsRejectsMissingPriority(t *testing.T) {
	_, err := ParseActionItems(`[{"text": "Send notes"}]`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseInsight(t *testing.T) {
	content, err := ParseInsight("```json\n{\"text\": \"three risks were raised\"}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(content, &got); err != nil {
		t.Fatalf("content does not parse: %v", err)
	}
	if got.Text != "three risks were raised" {
		t.Fatalf("unexpected content %q", got.Text)
	}
}

func TestParseInsightRejectsNonObject(t *testing.T) {
	_, err := ParseInsight(`["a", "b"]`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for a non-object payload, got %v", err)
	}
}
