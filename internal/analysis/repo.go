package analysis

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when an analysis does not exist.
var ErrNotFound = errors.New("analysis not found")

// Repo defines storage for analysis runs. History is session-scoped and
// lives only as long as the process; there is deliberately no database
// implementation.
type Repo interface {
	Create(ctx context.Context, a Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]Analysis, error)
	SetProcessing(ctx context.Context, analysisID string, startedAt time.Time) error
	SetCompleted(ctx context.Context, analysisID string, category Category, result *AggregateResult, completedAt time.Time) error
	SetFailed(ctx context.Context, analysisID string, message string, completedAt time.Time) error
}
