package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
)

// ExtractJSON recovers the JSON document from a raw model response. It
// trims whitespace, strips a surrounding markdown code fence, tries a
// direct parse, then falls back to the first balanced object or array
// span. Returns ParseError when nothing in the response parses.
func ExtractJSON(raw string) (string, error) {
	content := stripFences(strings.TrimSpace(raw))
	if json.Valid([]byte(content)) {
		return content, nil
	}
	if span, ok := balancedSpan(content); ok && json.Valid([]byte(span)) {
		return span, nil
	}
	return "", &ParseError{Raw: raw, Reason: "no JSON document in response"}
}

// stripFences removes a surrounding markdown code fence, tagged or not.
func stripFences(content string) string {
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	} else {
		return content
	}
	if idx := strings.LastIndex(content, "```"); idx != -1 {
		content = content[:idx]
	}
	return strings.TrimSpace(content)
}

// balancedSpan finds the first balanced {...} or [...] span, tracking
// string literals and escapes so brackets inside strings do not count.
func balancedSpan(content string) (string, bool) {
	start := strings.IndexAny(content, "{[")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			if inString {
				escaped = true
			}
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
			if depth == 0 {
				return content[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseSummary parses and validates a full summary response. A valid
// summary has a non-empty executiveSummary, at least one topic with a
// non-empty title and summary, and only known sentiment and priority
// values. Absent list fields become empty slices; absent sentiment
// defaults to neutral. Violations return ParseError with the complete
// raw response.
func ParseSummary(raw string) (*entities.SummaryOutput, error) {
	doc, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var out entities.SummaryOutput
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return nil, &ParseError{Raw: raw, Reason: fmt.Sprintf("summary is not a valid JSON object: %v", err)}
	}

	if strings.TrimSpace(out.ExecutiveSummary) == "" {
		return nil, &ParseError{Raw: raw, Reason: "executiveSummary is missing or empty"}
	}
	if len(out.Topics) == 0 {
		return nil, &ParseError{Raw: raw, Reason: "summary has no topics"}
	}
	if err := validateTopics(out.Topics); err != nil {
		return nil, &ParseError{Raw: raw, Reason: err.Error()}
	}

	// Sentiment defaults when absent but is never coerced when present.
	if out.Sentiment == "" {
		out.Sentiment = entities.SentimentNeutral
	}
	if !entities.ValidSentiment(out.Sentiment) {
		return nil, &ParseError{Raw: raw, Reason: fmt.Sprintf("invalid sentiment %q", out.Sentiment)}
	}

	if out.ActionItems == nil {
		out.ActionItems = []entities.ActionItemDraft{}
	}
	for i := range out.ActionItems {
		if err := validateActionItem(&out.ActionItems[i], i); err != nil {
			return nil, &ParseError{Raw: raw, Reason: err.Error()}
		}
	}
	if out.Decisions == nil {
		out.Decisions = []string{}
	}
	if out.Questions == nil {
		out.Questions = []string{}
	}

	return &out, nil
}

// ParseChunkSummary parses and validates a per-chunk response. Chunks
// carry no executiveSummary or sentiment, may legitimately have zero
// topics, and may add keyQuotes.
func ParseChunkSummary(raw string) (*entities.ChunkSummary, error) {
	doc, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var out entities.ChunkSummary
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return nil, &ParseError{Raw: raw, Reason: fmt.Sprintf("chunk summary is not a valid JSON object: %v", err)}
	}

	if err := validateTopics(out.Topics); err != nil {
		return nil, &ParseError{Raw: raw, Reason: err.Error()}
	}
	if out.Topics == nil {
		out.Topics = []entities.Topic{}
	}
	if out.ActionItems == nil {
		out.ActionItems = []entities.ActionItemDraft{}
	}
	for i := range out.ActionItems {
		if err := validateActionItem(&out.ActionItems[i], i); err != nil {
			return nil, &ParseError{Raw: raw, Reason: err.Error()}
		}
	}
	if out.Decisions == nil {
		out.Decisions = []string{}
	}
	if out.Questions == nil {
		out.Questions = []string{}
	}
	if out.KeyQuotes == nil {
		out.KeyQuotes = []string{}
	}

	return &out, nil
}

// ParseActionItems parses an action-item extraction response. Both a bare
// array and an {"actionItems": [...]} envelope are accepted. Every item
// requires text and a known priority; a missing or unknown priority is a
// hard failure, never defaulted.
func ParseActionItems(raw string) ([]entities.ActionItemDraft, error) {
	doc, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var items []entities.ActionItemDraft
	if err := json.Unmarshal([]byte(doc), &items); err != nil {
		var envelope struct {
			ActionItems []entities.ActionItemDraft `json:"actionItems"`
		}
		if err := json.Unmarshal([]byte(doc), &envelope); err != nil {
			return nil, &ParseError{Raw: raw, Reason: fmt.Sprintf("response is neither an action item array nor an actionItems object: %v", err)}
		}
		items = envelope.ActionItems
	}

	if items == nil {
		items = []entities.ActionItemDraft{}
	}
	for i := range items {
		if err := validateActionItem(&items[i], i); err != nil {
			return nil, &ParseError{Raw: raw, Reason: err.Error()}
		}
	}
	return items, nil
}

// ParseInsight parses an insight extraction response. The payload must be
// a JSON object; its content stays opaque to the engine.
func ParseInsight(raw string) (json.RawMessage, error) {
	doc, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(doc)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, &ParseError{Raw: raw, Reason: "insight payload is not a JSON object"}
	}
	return json.RawMessage(trimmed), nil
}

func validateTopics(topics []entities.Topic) error {
	for i := range topics {
		if strings.TrimSpace(topics[i].Title) == "" {
			return fmt.Errorf("topic %d is missing a title", i)
		}
		if strings.TrimSpace(topics[i].Summary) == "" {
			return fmt.Errorf("topic %d is missing a summary", i)
		}
		if topics[i].KeyPoints == nil {
			topics[i].KeyPoints = []string{}
		}
	}
	return nil
}

// validateActionItem checks one draft in place. Models occasionally emit
// the literal string "null" for unknown fields; normalize that to absent.
func validateActionItem(item *entities.ActionItemDraft, position int) error {
	if strings.TrimSpace(item.Text) == "" {
		return fmt.Errorf("action item %d is missing text", position)
	}
	if !entities.ValidPriority(item.Priority) {
		return fmt.Errorf("action item %d has invalid priority %q", position, item.Priority)
	}
	if strings.EqualFold(item.Assignee, "null") {
		item.Assignee = ""
	}
	if strings.EqualFold(item.DueDate, "null") {
		item.DueDate = ""
	}
	return nil
}
