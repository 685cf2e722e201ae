package transcription

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/meetingflow-team/meetingflow/internal/domain/entities"
	"github.com/meetingflow-team/meetingflow/internal/infrastructure/external/assemblyai"
	"github.com/meetingflow-team/meetingflow/internal/infrastructure/queue"
)

type fakeRecordingRepo struct {
	recordings map[uuid.UUID]*entities.Recording
	createErr  error
}

func newFakeRecordingRepo() *fakeRecordingRepo {
	return &fakeRecordingRepo{recordings: make(map[uuid.UUID]*entities.Recording)}
}

func (f *fakeRecordingRepo) Create(_ context.Context, r *entities.Recording) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.recordings[r.ID] = r
	return nil
}

func (f *fakeRecordingRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Recording, error) {
	r, ok := f.recordings[id]
	if !ok {
		return nil, entities.ErrRecordingNotFound
	}
	return r, nil
}

func (f *fakeRecordingRepo) FindByExternalID(_ context.Context, externalID string) (*entities.Recording, error) {
	for _, r := range f.recordings {
		if r.ExternalID != nil && *r.ExternalID == externalID {
			return r, nil
		}
	}
	return nil, entities.ErrRecordingNotFound
}

func (f *fakeRecordingRepo) Update(_ context.Context, r *entities.Recording) error {
	f.recordings[r.ID] = r
	return nil
}

type fakeTranscriptRepo struct {
	transcripts []*entities.Transcript
}

func (f *fakeTranscriptRepo) Create(_ context.Context, tr *entities.Transcript) error {
	f.transcripts = append(f.transcripts, tr)
	return nil
}

func (f *fakeTranscriptRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Transcript, error) {
	for _, tr := range f.transcripts {
		if tr.ID == id {
			return tr, nil
		}
	}
	return nil, entities.ErrTranscriptNotFound
}

func (f *fakeTranscriptRepo) FindByMeetingID(_ context.Context, meetingID uuid.UUID) (*entities.Transcript, error) {
	for i := len(f.transcripts) - 1; i >= 0; i-- {
		if f.transcripts[i].MeetingID == meetingID {
			return f.transcripts[i], nil
		}
	}
	return nil, entities.ErrTranscriptNotFound
}

func (f *fakeTranscriptRepo) FindByExternalID(_ context.Context, externalID string) (*entities.Transcript, error) {
	for _, tr := range f.transcripts {
		if tr.ExternalID != nil && *tr.ExternalID == externalID {
			return tr, nil
		}
	}
	return nil, entities.ErrTranscriptNotFound
}

type fakeMeetingRepo struct {
	meetings map[uuid.UUID]*entities.Meeting
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: make(map[uuid.UUID]*entities.Meeting)}
}

func (f *fakeMeetingRepo) Create(_ context.Context, m *entities.Meeting) error {
	f.meetings[m.ID] = m
	return nil
}

func (f *fakeMeetingRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	m, ok := f.meetings[id]
	if !ok {
		return nil, entities.ErrMeetingNotFound
	}
	return m, nil
}

func (f *fakeMeetingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entities.MeetingStatus, _ datatypes.JSON) error {
	m, ok := f.meetings[id]
	if !ok {
		return entities.ErrMeetingNotFound
	}
	m.Status = status
	return nil
}

type fakeStore struct {
	objects   map[string][]byte
	signedFor []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) UploadFile(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[objectName] = data
	return nil
}

func (f *fakeStore) PresignedURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	if _, ok := f.objects[objectName]; !ok {
		return "", errors.New("no such object")
	}
	f.signedFor = append(f.signedFor, objectName)
	return "https://storage.test/" + objectName + "?sig=abc", nil
}

func (f *fakeStore) RemoveFile(_ context.Context, objectName string) error {
	delete(f.objects, objectName)
	return nil
}

type fakeTranscriber struct {
	submittedURL string
	externalID   string
	submitErr    error
	result       *assemblyai.Result
	fetchErr     error
}

func (f *fakeTranscriber) Submit(_ context.Context, audioURL string) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submittedURL = audioURL
	return f.externalID, nil
}

func (f *fakeTranscriber) Fetch(_ context.Context, _ string) (*assemblyai.Result, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.result, nil
}

type fakeQueue struct {
	enqueued []uuid.UUID
	err      error
}

func (f *fakeQueue) Enqueue(_ context.Context, meetingID, transcriptID uuid.UUID, _ queue.EnqueueOptions) (*entities.SummaryJob, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.enqueued = append(f.enqueued, transcriptID)
	return entities.NewSummaryJob(meetingID, transcriptID, 3), nil
}

type fixture struct {
	svc         *Service
	recordings  *fakeRecordingRepo
	transcripts *fakeTranscriptRepo
	meetings    *fakeMeetingRepo
	store       *fakeStore
	transcriber *fakeTranscriber
	queue       *fakeQueue
	meetingID   uuid.UUID
}

func newFixture(autoSummarize bool) *fixture {
	recordings := newFakeRecordingRepo()
	transcripts := &fakeTranscriptRepo{}
	meetings := newFakeMeetingRepo()
	store := newFakeStore()
	transcriber := &fakeTranscriber{externalID: "aai-123"}
	q := &fakeQueue{}

	m := entities.NewMeeting("weekly sync")
	meetings.meetings[m.ID] = m

	svc := NewService(recordings, transcripts, meetings, store, transcriber, q, time.Hour, autoSummarize, nil)
	return &fixture{
		svc:         svc,
		recordings:  recordings,
		transcripts: transcripts,
		meetings:    meetings,
		store:       store,
		transcriber: transcriber,
		queue:       q,
		meetingID:   m.ID,
	}
}

func (f *fixture) uploadedRecording(t *testing.T) *entities.Recording {
	t.Helper()
	rec, err := f.svc.UploadRecording(context.Background(), UploadRecordingInput{
		MeetingID:   f.meetingID,
		FileName:    "standup.mp3",
		ContentType: "audio/mpeg",
		SizeBytes:   11,
		Body:        strings.NewReader("fake audio!"),
	})
	if err != nil {
		t.Fatalf("UploadRecording: %v", err)
	}
	return rec
}

func TestUploadRecordingStoresObject(t *testing.T) {
	f := newFixture(false)

	rec := f.uploadedRecording(t)

	if rec.Status != entities.RecordingStatusUploaded {
		t.Errorf("status = %q, want uploaded", rec.Status)
	}
	if !strings.HasSuffix(rec.ObjectKey, ".mp3") {
		t.Errorf("object key %q should keep the file extension", rec.ObjectKey)
	}
	data, ok := f.store.objects[rec.ObjectKey]
	if !ok {
		t.Fatalf("object %q not stored", rec.ObjectKey)
	}
	if string(data) != "fake audio!" {
		t.Errorf("stored bytes = %q", data)
	}
}

func TestUploadRecordingCreateFailureRemovesObject(t *testing.T) {
	f := newFixture(false)
	f.recordings.createErr = errors.New("insert failed")

	_, err := f.svc.UploadRecording(context.Background(), UploadRecordingInput{
		MeetingID:   f.meetingID,
		FileName:    "standup.mp3",
		ContentType: "audio/mpeg",
		SizeBytes:   11,
		Body:        strings.NewReader("fake audio!"),
	})
	if err == nil {
		t.Fatal("expected the create error to surface")
	}
	if len(f.store.objects) != 0 {
		t.Errorf("orphaned object left in storage: %v", f.store.objects)
	}
}

func TestUploadRecordingUnknownMeeting(t *testing.T) {
	f := newFixture(false)

	_, err := f.svc.UploadRecording(context.Background(), UploadRecordingInput{
		MeetingID: uuid.New(),
		FileName:  "x.wav",
		Body:      strings.NewReader("data"),
	})
	if !errors.Is(err, entities.ErrMeetingNotFound) {
		t.Errorf("err = %v, want ErrMeetingNotFound", err)
	}
	if len(f.store.objects) != 0 {
		t.Error("object stored for unknown meeting")
	}
}

func TestStartTranscriptionSubmitsPresignedURL(t *testing.T) {
	f := newFixture(false)
	rec := f.uploadedRecording(t)

	updated, err := f.svc.StartTranscription(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("StartTranscription: %v", err)
	}
	if updated.Status != entities.RecordingStatusTranscribing {
		t.Errorf("status = %q, want transcribing", updated.Status)
	}
	if updated.ExternalID == nil || *updated.ExternalID != "aai-123" {
		t.Errorf("external id = %v, want aai-123", updated.ExternalID)
	}
	if !strings.Contains(f.transcriber.submittedURL, rec.ObjectKey) {
		t.Errorf("submitted url %q does not reference the stored object", f.transcriber.submittedURL)
	}
	if len(f.store.signedFor) != 1 {
		t.Errorf("presigned %d objects, want 1", len(f.store.signedFor))
	}
}

func TestStartTranscriptionSubmitFailureMarksRecording(t *testing.T) {
	f := newFixture(false)
	rec := f.uploadedRecording(t)
	f.transcriber.submitErr = errors.New("provider down")

	if _, err := f.svc.StartTranscription(context.Background(), rec.ID); err == nil {
		t.Fatal("expected submit error")
	}
	stored := f.recordings.recordings[rec.ID]
	if stored.Status != entities.RecordingStatusFailed {
		t.Errorf("status = %q, want failed", stored.Status)
	}
	if stored.Error == nil || !strings.Contains(*stored.Error, "provider down") {
		t.Errorf("error = %v, want provider message", stored.Error)
	}
}

func TestHandleWebhookStoresTranscript(t *testing.T) {
	f := newFixture(false)
	rec := f.uploadedRecording(t)
	if _, err := f.svc.StartTranscription(context.Background(), rec.ID); err != nil {
		t.Fatalf("StartTranscription: %v", err)
	}
	f.transcriber.result = &assemblyai.Result{
		Text:     "alpha beta gamma",
		Language: "en",
		Segments: []entities.Segment{
			{Speaker: "A", Text: "alpha beta", Start: 0, End: 2},
			{Speaker: "B", Text: "gamma", Start: 2, End: 3},
		},
		SpeakerCount:    2,
		ConfidenceScore: 0.93,
	}

	err := f.svc.HandleWebhook(context.Background(), assemblyai.WebhookPayload{
		TranscriptID: "aai-123",
		Status:       "completed",
	})
	if err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	if len(f.transcripts.transcripts) != 1 {
		t.Fatalf("got %d transcripts, want 1", len(f.transcripts.transcripts))
	}
	tr := f.transcripts.transcripts[0]
	if tr.MeetingID != f.meetingID {
		t.Errorf("transcript meeting = %s, want %s", tr.MeetingID, f.meetingID)
	}
	if tr.Source != entities.TranscriptSourceAssemblyAI {
		t.Errorf("source = %q, want assemblyai", tr.Source)
	}
	if tr.WordCount != 3 {
		t.Errorf("word count = %d, want 3", tr.WordCount)
	}
	if !tr.HasSpeakers || tr.SpeakerCount != 2 {
		t.Errorf("speakers = %v/%d, want true/2", tr.HasSpeakers, tr.SpeakerCount)
	}
	if f.recordings.recordings[rec.ID].Status != entities.RecordingStatusTranscribed {
		t.Errorf("recording status = %q, want transcribed", f.recordings.recordings[rec.ID].Status)
	}
	if len(f.queue.enqueued) != 0 {
		t.Error("summarization queued with auto-summarize off")
	}
}

func TestHandleWebhookAutoSummarizes(t *testing.T) {
	f := newFixture(true)
	rec := f.uploadedRecording(t)
	if _, err := f.svc.StartTranscription(context.Background(), rec.ID); err != nil {
		t.Fatalf("StartTranscription: %v", err)
	}
	f.transcriber.result = &assemblyai.Result{Text: "decisions were made"}

	err := f.svc.HandleWebhook(context.Background(), assemblyai.WebhookPayload{
		TranscriptID: "aai-123",
		Status:       "completed",
	})
	if err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if len(f.queue.enqueued) != 1 {
		t.Fatalf("queued %d jobs, want 1", len(f.queue.enqueued))
	}
	if f.queue.enqueued[0] != f.transcripts.transcripts[0].ID {
		t.Error("queued job does not reference the ingested transcript")
	}
}

func TestHandleWebhookEnqueueFailureKeepsTranscript(t *testing.T) {
	f := newFixture(true)
	rec := f.uploadedRecording(t)
	if _, err := f.svc.StartTranscription(context.Background(), rec.ID); err != nil {
		t.Fatalf("StartTranscription: %v", err)
	}
	f.transcriber.result = &assemblyai.Result{Text: "still worth keeping"}
	f.queue.err = errors.New("redis gone")

	err := f.svc.HandleWebhook(context.Background(), assemblyai.WebhookPayload{
		TranscriptID: "aai-123",
		Status:       "completed",
	})
	if err != nil {
		t.Fatalf("HandleWebhook should not fail on enqueue error, got %v", err)
	}
	if len(f.transcripts.transcripts) != 1 {
		t.Error("transcript lost on enqueue failure")
	}
}

func TestHandleWebhookUpstreamFailure(t *testing.T) {
	f := newFixture(false)
	rec := f.uploadedRecording(t)
	if _, err := f.svc.StartTranscription(context.Background(), rec.ID); err != nil {
		t.Fatalf("StartTranscription: %v", err)
	}

	err := f.svc.HandleWebhook(context.Background(), assemblyai.WebhookPayload{
		TranscriptID: "aai-123",
		Status:       "error",
	})
	if err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if f.recordings.recordings[rec.ID].Status != entities.RecordingStatusFailed {
		t.Errorf("recording status = %q, want failed", f.recordings.recordings[rec.ID].Status)
	}
	if len(f.transcripts.transcripts) != 0 {
		t.Error("transcript stored for failed transcription")
	}
}

func TestHandleWebhookUnknownTranscript(t *testing.T) {
	f := newFixture(false)

	err := f.svc.HandleWebhook(context.Background(), assemblyai.WebhookPayload{
		TranscriptID: "aai-ghost",
		Status:       "completed",
	})
	if !errors.Is(err, entities.ErrRecordingNotFound) {
		t.Errorf("err = %v, want ErrRecordingNotFound", err)
	}
}

func TestHandleWebhookDuplicateDelivery(t *testing.T) {
	f := newFixture(true)
	rec := f.uploadedRecording(t)
	if _, err := f.svc.StartTranscription(context.Background(), rec.ID); err != nil {
		t.Fatalf("StartTranscription: %v", err)
	}
	f.transcriber.result = &assemblyai.Result{Text: "once is enough"}

	payload := assemblyai.WebhookPayload{TranscriptID: "aai-123", Status: "completed"}
	if err := f.svc.HandleWebhook(context.Background(), payload); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := f.svc.HandleWebhook(context.Background(), payload); err != nil {
		t.Fatalf("second delivery: %v", err)
	}

	if len(f.transcripts.transcripts) != 1 {
		t.Errorf("got %d transcripts after duplicate delivery, want 1", len(f.transcripts.transcripts))
	}
	if len(f.queue.enqueued) != 1 {
		t.Errorf("queued %d jobs after duplicate delivery, want 1", len(f.queue.enqueued))
	}
}
