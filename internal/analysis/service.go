package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shelfvision-backend/internal/media"
	"shelfvision-backend/internal/shared/metrics"
	"shelfvision-backend/internal/shared/telemetry"
)

// Service contains business logic for analysis runs. A run is enqueued
// synchronously and completed by a background goroutine; callers poll for
// the result.
type Service struct {
	Repo  Repo
	Media *media.Service
	Pipe  *Pipeline
}

// Create enqueues a new analysis and kicks off asynchronous completion.
func (s *Service) Create(ctx context.Context, sessionID, mediaID, question string, frameInterval int) (Analysis, error) {
	if sessionID == "" || mediaID == "" {
		return Analysis{}, errors.New("sessionID and mediaID are required")
	}
	if question == "" {
		return Analysis{}, errors.New("question is required")
	}
	if frameInterval < 1 {
		frameInterval = DefaultFrameInterval
	}

	a := Analysis{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		MediaID:       mediaID,
		Question:      question,
		FrameInterval: frameInterval,
		Status:        StatusQueued,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, a); err != nil {
		return Analysis{}, err
	}

	go s.completeAsync(backgroundWithRequestID(ctx), a.ID)

	return a, nil
}

// Get returns an analysis by ID.
func (s *Service) Get(ctx context.Context, analysisID string) (Analysis, error) {
	if analysisID == "" {
		return Analysis{}, errors.New("analysisID is required")
	}
	return s.Repo.GetByID(ctx, analysisID)
}

// List returns analyses for a session ordered newest-first.
func (s *Service) List(ctx context.Context, sessionID string, limit, offset int) ([]Analysis, error) {
	if sessionID == "" {
		return nil, errors.New("sessionID is required")
	}
	return s.Repo.ListBySession(ctx, sessionID, limit, offset)
}

func (s *Service) completeAsync(ctx context.Context, analysisID string) {
	defer func() {
		if r := recover(); r != nil {
			s.failAnalysis(ctx, analysisID, "", fmt.Errorf("panic: %v", r), nil)
		}
	}()

	startedAt := time.Now().UTC()
	if err := s.Repo.SetProcessing(ctx, analysisID, startedAt); err != nil {
		s.failAnalysis(ctx, analysisID, "", fmt.Errorf("set processing failed: %w", err), &startedAt)
		return
	}

	a, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		s.failAnalysis(ctx, analysisID, "", fmt.Errorf("analysis lookup: %w", err), &startedAt)
		return
	}
	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"session_id":        a.SessionID,
		"media_id":          a.MediaID,
		"analysis_id":       a.ID,
		"status":            StatusProcessing,
		"status_transition": "queued->processing",
	})
	if s.Media == nil || s.Pipe == nil {
		s.failAnalysis(ctx, analysisID, a.SessionID, errors.New("missing pipeline dependencies"), &startedAt)
		return
	}

	m, err := s.Media.Get(ctx, a.SessionID, a.MediaID)
	if err != nil {
		s.failAnalysis(ctx, analysisID, a.SessionID, fmt.Errorf("media lookup id=%s: %w", a.MediaID, err), &startedAt)
		return
	}

	path, cleanup, err := s.Media.ResolvePath(ctx, m)
	if err != nil {
		s.failAnalysis(ctx, analysisID, a.SessionID, fmt.Errorf("resolve media %s: %w", m.ID, err), &startedAt)
		return
	}
	defer cleanup()

	result, category, err := s.Pipe.Run(ctx, path, a.Question, a.FrameInterval)
	if err != nil {
		s.failAnalysis(ctx, analysisID, a.SessionID, err, &startedAt)
		return
	}

	completedAt := time.Now().UTC()
	if err := s.Repo.SetCompleted(ctx, analysisID, category, &result, completedAt); err != nil {
		s.failAnalysis(ctx, analysisID, a.SessionID, fmt.Errorf("set completed failed: %w", err), &startedAt)
		return
	}
	metrics.IncAnalysisCompleted()
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"session_id":        a.SessionID,
		"media_id":          a.MediaID,
		"analysis_id":       a.ID,
		"category":          string(category),
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"duration_ms":       completedAt.Sub(startedAt).Milliseconds(),
	})
}

func (s *Service) failAnalysis(ctx context.Context, analysisID, sessionID string, err error, startedAt *time.Time) {
	completedAt := time.Now().UTC()
	if updateErr := s.Repo.SetFailed(context.Background(), analysisID, err.Error(), completedAt); updateErr != nil {
		telemetry.Error("analysis.fail_update", map[string]any{
			"analysis_id": analysisID,
			"error":       updateErr.Error(),
			"original":    err.Error(),
		})
	}
	metrics.IncAnalysisFailed()
	fields := map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"session_id":        sessionID,
		"analysis_id":       analysisID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"error":             err.Error(),
	}
	if startedAt != nil {
		fields["duration_ms"] = completedAt.Sub(*startedAt).Milliseconds()
	}
	telemetry.Info("analysis.status", fields)
}
