package ai

import (
	"strings"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
)

// mergeKey normalizes a dedup key: lower-cased, surrounding whitespace
// dropped.
func mergeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MergeActionItems dedups drafts by normalized text, preserving
// first-seen order. A later duplicate fills assignee and dueDate only
// when unset and moves priority strictly upward, never down.
func MergeActionItems(items []entities.ActionItemDraft) []entities.ActionItemDraft {
	merged := make([]entities.ActionItemDraft, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		key := mergeKey(item.Text)
		pos, seen := index[key]
		if !seen {
			index[key] = len(merged)
			merged = append(merged, item)
			continue
		}

		existing := &merged[pos]
		if existing.Assignee == "" && item.Assignee != "" {
			existing.Assignee = item.Assignee
		}
		if existing.DueDate == "" && item.DueDate != "" {
			existing.DueDate = item.DueDate
		}
		if entities.PriorityRank(item.Priority) > entities.PriorityRank(existing.Priority) {
			existing.Priority = item.Priority
		}
	}
	return merged
}

// MergeTopics dedups topics by normalized title, preserving first-seen
// order. Duplicate summaries are concatenated with a space, never
// replaced; key points are union-deduped.
func MergeTopics(topics []entities.Topic) []entities.Topic {
	merged := make([]entities.Topic, 0, len(topics))
	index := make(map[string]int, len(topics))

	for _, topic := range topics {
		key := mergeKey(topic.Title)
		pos, seen := index[key]
		if !seen {
			index[key] = len(merged)
			// Copy the key points so later appends never write into the
			// caller's backing array.
			first := topic
			first.KeyPoints = append(make([]string, 0, len(topic.KeyPoints)), topic.KeyPoints...)
			merged = append(merged, first)
			continue
		}

		existing := &merged[pos]
		if topic.Summary != "" {
			if existing.Summary == "" {
				existing.Summary = topic.Summary
			} else {
				existing.Summary = existing.Summary + " " + topic.Summary
			}
		}
		existing.KeyPoints = DeduplicateStrings(append(existing.KeyPoints, topic.KeyPoints...))
	}
	return merged
}

// DeduplicateStrings removes case-insensitive duplicates, keeping the
// first-seen entry with its original casing and position.
func DeduplicateStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// CombineChunkSummaries folds per-chunk extractions into one partial
// summary for the consolidation prompt. Chunks arrive in meeting order,
// so first-seen semantics keep the earliest mention of everything.
func CombineChunkSummaries(summaries []*entities.ChunkSummary) *entities.ChunkSummary {
	var (
		topics    []entities.Topic
		items     []entities.ActionItemDraft
		decisions []string
		questions []string
		keyQuotes []string
	)
	for _, cs := range summaries {
		topics = append(topics, cs.Topics...)
		items = append(items, cs.ActionItems...)
		decisions = append(decisions, cs.Decisions...)
		questions = append(questions, cs.Questions...)
		keyQuotes = append(keyQuotes, cs.KeyQuotes...)
	}
	return &entities.ChunkSummary{
		Topics:      MergeTopics(topics),
		ActionItems: MergeActionItems(items),
		Decisions:   DeduplicateStrings(decisions),
		Questions:   DeduplicateStrings(questions),
		KeyQuotes:   DeduplicateStrings(keyQuotes),
	}
}
