package analysis

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"shelfvision-backend/internal/llm"
	"shelfvision-backend/internal/media"
	"shelfvision-backend/internal/shared/storage/object/local"
)

func newTestMediaService(t *testing.T) *media.Service {
	t.Helper()
	return &media.Service{
		Store: local.New(t.TempDir()),
		Repo:  media.NewMemoryRepo(),
	}
}

func waitForTerminal(t *testing.T, repo Repo, analysisID string) Analysis {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		a, err := repo.GetByID(context.Background(), analysisID)
		if err != nil {
			t.Fatalf("get analysis: %v", err)
		}
		if a.Status == StatusCompleted || a.Status == StatusFailed {
			return a
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("analysis never reached a terminal status")
	return Analysis{}
}

func TestServiceCreateCompletesImageAnalysis(t *testing.T) {
	ctx := context.Background()
	mediaSvc := newTestMediaService(t)

	m, err := mediaSvc.Upload(ctx, "session-1", "shelf.jpg", bytes.NewReader([]byte("jpegdata")))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	client := &stubLLM{fn: func(cctx context.Context, req llm.Request) (string, error) {
		if req.ImageB64 == "" {
			return "location_query", nil
		}
		return "Direct Answer: Top shelf.\nReasoning: The bottle sits top left.\nproduct_name = Tide", nil
	}}

	repo := NewMemoryRepo()
	svc := &Service{
		Repo:  repo,
		Media: mediaSvc,
		Pipe:  NewPipeline(client, nil, &stubFrames{}),
	}

	a, err := svc.Create(ctx, "session-1", m.ID, "Where is the Tide?", 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Status != StatusQueued {
		t.Fatalf("status = %q, want queued", a.Status)
	}
	if a.FrameInterval != DefaultFrameInterval {
		t.Fatalf("frameInterval = %d, want default", a.FrameInterval)
	}

	done := waitForTerminal(t, repo, a.ID)
	if done.Status != StatusCompleted {
		t.Fatalf("status = %q (%s), want completed", done.Status, done.ErrorMessage)
	}
	if done.Category != CategoryLocation {
		t.Fatalf("category = %q", done.Category)
	}
	if done.Result == nil || done.Result.DirectAnswer != "Top shelf." {
		t.Fatalf("result = %+v", done.Result)
	}
	if done.StartedAt == nil || done.CompletedAt == nil {
		t.Fatal("timestamps not recorded")
	}
}

func TestServiceCreateFailsWhenMediaMissing(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{
		Repo:  repo,
		Media: newTestMediaService(t),
		Pipe:  NewPipeline(&stubLLM{fn: func(ctx context.Context, req llm.Request) (string, error) { return "generic_query", nil }}, nil, &stubFrames{}),
	}

	a, err := svc.Create(context.Background(), "session-1", "no-such-media", "What is here?", 23)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	done := waitForTerminal(t, repo, a.ID)
	if done.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", done.Status)
	}
	if !strings.Contains(done.ErrorMessage, "media lookup") {
		t.Fatalf("error = %q", done.ErrorMessage)
	}
}

func TestServiceCreateValidatesInput(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	if _, err := svc.Create(context.Background(), "", "media-1", "Where?", 23); err == nil {
		t.Fatal("expected error for missing session")
	}
	if _, err := svc.Create(context.Background(), "session-1", "media-1", "", 23); err == nil {
		t.Fatal("expected error for missing question")
	}
}
