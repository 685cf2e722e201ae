package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
)

// summarySystemPrompt is shared by the single-pass, chunk and
// consolidation calls.
const summarySystemPrompt = `You are an expert meeting analyst. You produce precise, structured summaries of meeting transcripts. Respond with ONLY valid JSON matching the requested schema. No prose, no markdown fences, no commentary.`

const insightSystemPrompt = `You are an expert meeting analyst. You answer focused questions about a single meeting transcript. Respond with ONLY valid JSON matching the requested schema. No prose, no markdown fences, no commentary.`

const summaryOutputSchema = `{
  "executiveSummary": "<2-4 sentence overview of the whole meeting>",
  "topics": [
    {
      "title": "<short topic title>",
      "summary": "<what was discussed>",
      "keyPoints": ["<key point>"]
    }
  ],
  "actionItems": [
    {
      "text": "<what needs to be done>",
      "assignee": "<person responsible, or null>",
      "dueDate": "<due date exactly as spoken, or null>",
      "priority": "<high|medium|low>"
    }
  ],
  "decisions": ["<decision that was made>"],
  "questions": ["<question left open>"],
  "sentiment": "<positive|neutral|negative|mixed>"
}`

const chunkOutputSchema = `{
  "topics": [
    {
      "title": "<short topic title>",
      "summary": "<what was discussed>",
      "keyPoints": ["<key point>"]
    }
  ],
  "actionItems": [
    {
      "text": "<what needs to be done>",
      "assignee": "<person responsible, or null>",
      "dueDate": "<due date exactly as spoken, or null>",
      "priority": "<high|medium|low>"
    }
  ],
  "decisions": ["<decision that was made>"],
  "questions": ["<question left open>"],
  "keyQuotes": ["<verbatim quote worth keeping>"]
}`

const summaryPromptTemplate = `Analyze the following meeting transcript and produce a structured summary.

%sReturn a valid JSON object with exactly this shape:
%s

Rules:
- topics must contain at least one entry.
- Every action item requires text and a priority of high, medium or low.
- Use JSON null for unknown assignee or dueDate, never the string "null".
- Keep dueDate exactly as spoken ("next Friday", "end of month", "2026-09-01").
%s
--- TRANSCRIPT START ---
%s
--- TRANSCRIPT END ---`

const chunkPromptTemplate = `You are analyzing chunk %d of %d of a long meeting transcript. Extract everything noteworthy from this chunk alone.

%sReturn a valid JSON object with exactly this shape:
%s

Rules:
- Report only what appears in this chunk.
- Every action item requires text and a priority of high, medium or low.
- Use JSON null for unknown assignee or dueDate, never the string "null".
- Keep dueDate exactly as spoken ("next Friday", "end of month", "2026-09-01").
- keyQuotes is optional; include only quotes worth keeping verbatim.

--- CHUNK START ---
%s
--- CHUNK END ---`

const consolidationPromptTemplate = `The following JSON document combines partial summaries extracted from %d consecutive chunks of one meeting, in meeting order. Exact duplicates are already merged. Write the final summary of the whole meeting.

%sCombined partial summary:
%s

Return a valid JSON object with exactly this shape:
%s

Rules:
- Merge topics and action items that say the same thing in different words; never lose information.
- topics must contain at least one entry.
- Every action item requires text and a priority of high, medium or low.
- Use JSON null for unknown assignee or dueDate, never the string "null".
- sentiment reflects the whole meeting.
%s`

const insightPromptTemplate = `%s

--- TRANSCRIPT START ---
%s
--- TRANSCRIPT END ---

Task: %s

%s`

// insightSchemaInstructions maps a template's output schema to the JSON
// instruction appended to its prompt.
var insightSchemaInstructions = map[entities.InsightOutputSchema]string{
	entities.InsightSchemaText:  `Respond with ONLY a valid JSON object: {"text": "<your answer>"}`,
	entities.InsightSchemaList:  `Respond with ONLY a valid JSON object: {"items": ["<entry>"]}`,
	entities.InsightSchemaTable: `Respond with ONLY a valid JSON object: {"columns": ["<column name>"], "rows": [["<cell value>"]]}`,
	entities.InsightSchemaJSON:  `Respond with ONLY a valid JSON object in whatever shape best fits the task.`,
}

// buildMeetingHeader renders the metadata block shared by the summary and
// consolidation prompts. Empty when no metadata is known.
func buildMeetingHeader(tctx entities.TranscriptContext) string {
	var b strings.Builder
	if tctx.MeetingTitle != "" {
		fmt.Fprintf(&b, "Meeting: %s\n", tctx.MeetingTitle)
	}
	if len(tctx.ParticipantNames) > 0 {
		fmt.Fprintf(&b, "Participants: %s\n", strings.Join(tctx.ParticipantNames, ", "))
	}
	if tctx.DurationSeconds > 0 {
		fmt.Fprintf(&b, "Duration: %d minutes\n", tctx.DurationSeconds/60)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

// buildCustomBlock renders caller-supplied extra instructions, or "" when
// none were given.
func buildCustomBlock(customPrompt string) string {
	if customPrompt == "" {
		return ""
	}
	return "\nAdditional instructions:\n" + customPrompt + "\n"
}

// BuildSummaryPrompt renders the single-pass summarization prompt. The
// transcript is embedded whole; prompts never truncate.
func BuildSummaryPrompt(tctx entities.TranscriptContext, customPrompt string) string {
	return fmt.Sprintf(summaryPromptTemplate,
		buildMeetingHeader(tctx),
		summaryOutputSchema,
		buildCustomBlock(customPrompt),
		tctx.FullText,
	)
}

// BuildChunkPrompt renders the per-chunk extraction prompt. index is
// 1-based.
func BuildChunkPrompt(chunk string, index, total int, tctx entities.TranscriptContext) string {
	return fmt.Sprintf(chunkPromptTemplate,
		index,
		total,
		buildMeetingHeader(tctx),
		chunkOutputSchema,
		chunk,
	)
}

// BuildConsolidationPrompt renders the final merge prompt over the
// combined partial summary produced from all chunks.
func BuildConsolidationPrompt(combined *entities.ChunkSummary, chunkCount int, tctx entities.TranscriptContext, customPrompt string) string {
	b, _ := json.Marshal(combined)
	return fmt.Sprintf(consolidationPromptTemplate,
		chunkCount,
		buildMeetingHeader(tctx),
		string(b),
		summaryOutputSchema,
		buildCustomBlock(customPrompt),
	)
}

// BuildInsightPrompt renders the prompt for one insight template over the
// full transcript.
func BuildInsightPrompt(template *entities.InsightTemplate, transcriptText string) string {
	instruction, ok := insightSchemaInstructions[template.OutputSchema]
	if !ok {
		instruction = insightSchemaInstructions[entities.InsightSchemaJSON]
	}
	return fmt.Sprintf(insightPromptTemplate,
		template.Description,
		transcriptText,
		template.PromptBody,
		instruction,
	)
}
