package media

import "context"

// MediaRepo defines persistence operations for uploaded media.
type MediaRepo interface {
	Create(ctx context.Context, m Media) error
	GetByID(ctx context.Context, sessionID, mediaID string) (Media, error)
	ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]Media, error)
}
