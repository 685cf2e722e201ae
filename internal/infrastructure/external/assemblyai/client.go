package assemblyai

import (
	"context"
	"fmt"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	"github.com/meetingflow-team/meetingflow/pkg/config"
)

// WebhookAuthHeader is the header name AssemblyAI echoes back on webhook
// delivery. The handler compares its value against the configured secret.
const WebhookAuthHeader = "X-Webhook-Secret"

// WebhookPayload is the body AssemblyAI POSTs when a job finishes.
type WebhookPayload struct {
	TranscriptID string `json:"transcript_id"`
	Status       string `json:"status"`
}

// Result is a completed transcription mapped onto the domain model.
type Result struct {
	Text            string
	Language        string
	Segments        []entities.Segment
	SpeakerCount    int
	ConfidenceScore float64
	DurationSeconds int
}

// Client wraps the AssemblyAI SDK for batch transcription. Submission is
// asynchronous; completion arrives on the webhook.
type Client struct {
	sdk           *aai.Client
	webhookURL    string
	webhookSecret string
}

// NewClient creates an AssemblyAI client from config.
func NewClient(cfg *config.AssemblyAIConfig) *Client {
	return &Client{
		sdk:           aai.NewClient(cfg.APIKey),
		webhookURL:    cfg.WebhookURL,
		webhookSecret: cfg.WebhookSecret,
	}
}

// Submit starts transcribing audioURL and returns the provider's transcript
// ID. Speaker labels and language detection are always requested; meetings
// without them summarize worse.
func (c *Client) Submit(ctx context.Context, audioURL string) (string, error) {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels:     aai.Bool(true),
		LanguageDetection: aai.Bool(true),
	}
	if c.webhookURL != "" {
		params.WebhookURL = aai.String(c.webhookURL)
		if c.webhookSecret != "" {
			params.WebhookAuthHeaderName = aai.String(WebhookAuthHeader)
			params.WebhookAuthHeaderValue = aai.String(c.webhookSecret)
		}
	}

	transcript, err := c.sdk.Transcripts.SubmitFromURL(ctx, audioURL, params)
	if err != nil {
		return "", fmt.Errorf("failed to submit transcription: %w", err)
	}
	if transcript.ID == nil {
		return "", fmt.Errorf("assemblyai returned no transcript id")
	}
	return *transcript.ID, nil
}

// Fetch retrieves a finished transcription. Returns an error when the
// provider reports failure or the job is still running.
func (c *Client) Fetch(ctx context.Context, externalID string) (*Result, error) {
	transcript, err := c.sdk.Transcripts.Get(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcription: %w", err)
	}

	switch transcript.Status {
	case aai.TranscriptStatusCompleted:
	case aai.TranscriptStatusError:
		return nil, fmt.Errorf("transcription failed: %s", aai.ToString(transcript.Error))
	default:
		return nil, fmt.Errorf("transcription still %s", transcript.Status)
	}

	result := &Result{
		Text:            aai.ToString(transcript.Text),
		Language:        string(transcript.LanguageCode),
		ConfidenceScore: aai.ToFloat64(transcript.Confidence),
		DurationSeconds: int(aai.ToFloat64(transcript.AudioDuration)),
	}

	speakers := make(map[string]struct{})
	for _, u := range transcript.Utterances {
		segment := entities.Segment{
			Start:   float64(aai.ToInt64(u.Start)) / 1000,
			End:     float64(aai.ToInt64(u.End)) / 1000,
			Text:    aai.ToString(u.Text),
			Speaker: aai.ToString(u.Speaker),
		}
		result.Segments = append(result.Segments, segment)
		if segment.Speaker != "" {
			speakers[segment.Speaker] = struct{}{}
		}
	}
	result.SpeakerCount = len(speakers)

	return result, nil
}
