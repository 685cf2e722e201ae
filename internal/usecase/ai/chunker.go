package ai

import "strings"

// CountWords counts whitespace-separated words. Scripts written without
// spaces undercount; the result is only used for routing decisions, so
// that is acceptable.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Chunker splits transcripts that exceed the single-call word budget.
type Chunker struct {
	maxWords int
}

// NewChunker creates a chunker with the given per-chunk word budget.
func NewChunker(maxWords int) *Chunker {
	return &Chunker{maxWords: maxWords}
}

// MaxWords returns the per-chunk word budget.
func (c *Chunker) MaxWords() int {
	return c.maxWords
}

// NeedsChunking reports whether text exceeds the per-chunk word budget.
// A transcript of exactly maxWords words still fits in a single call.
func (c *Chunker) NeedsChunking(text string) bool {
	return CountWords(text) > c.maxWords
}

// Split cuts text into word-bounded chunks. Every chunk except the last
// carries exactly maxWords words; joining the chunks with single spaces
// reproduces the whitespace-normalized word sequence. Words are never
// split and chunks never overlap.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+c.maxWords-1)/c.maxWords)
	for start := 0; start < len(words); start += c.maxWords {
		end := start + c.maxWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
