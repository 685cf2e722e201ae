package entities

// TranscriptContext carries everything the prompt builders need about one
// meeting. Built once per job and never mutated.
type TranscriptContext struct {
	FullText         string
	MeetingTitle     string
	ParticipantNames []string
	DurationSeconds  int
}

// Sentiment values the model is allowed to return. Matching is exact and
// case-sensitive; anything else is rejected rather than coerced.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
	SentimentMixed    = "mixed"
)

// ValidSentiment reports whether s is one of the four allowed values.
func ValidSentiment(s string) bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative, SentimentMixed:
		return true
	}
	return false
}

// Topic is one discussion topic extracted from a transcript. Field names
// use camelCase to match the JSON shape the prompts request.
type Topic struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
}

// ActionItemDraft is an action item as extracted by the model, before
// due-date resolution. DueDate holds whatever phrase the model produced
// ("next Friday", "2026-09-01", ...); resolution happens at persistence.
type ActionItemDraft struct {
	Text     string `json:"text"`
	Assignee string `json:"assignee,omitempty"`
	DueDate  string `json:"dueDate,omitempty"`
	Priority string `json:"priority"`
}

// SummaryOutput is the canonical engine output for one meeting.
type SummaryOutput struct {
	ExecutiveSummary string            `json:"executiveSummary"`
	Topics           []Topic           `json:"topics"`
	ActionItems      []ActionItemDraft `json:"actionItems"`
	Decisions        []string          `json:"decisions"`
	Questions        []string          `json:"questions"`
	Sentiment        string            `json:"sentiment"`
}

// ChunkSummary is the partial extraction for one transcript chunk. It is
// consumed by the consolidation prompt and then discarded.
type ChunkSummary struct {
	Topics      []Topic           `json:"topics"`
	ActionItems []ActionItemDraft `json:"actionItems"`
	Decisions   []string          `json:"decisions"`
	Questions   []string          `json:"questions"`
	KeyQuotes   []string          `json:"keyQuotes,omitempty"`
}

// NewEmptySummary returns the placeholder summary used when a meeting has
// no extractable content. It satisfies the same validation rules as any
// model-produced summary, so storing and re-reading it is always safe.
func NewEmptySummary() *SummaryOutput {
	return &SummaryOutput{
		ExecutiveSummary: "No summary is available for this meeting.",
		Topics: []Topic{
			{
				Title:     "General",
				Summary:   "No distinct discussion topics were identified.",
				KeyPoints: []string{},
			},
		},
		ActionItems: []ActionItemDraft{},
		Decisions:   []string{},
		Questions:   []string{},
		Sentiment:   SentimentNeutral,
	}
}
