package media

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of MediaRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Media // sessionID -> media
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Media),
	}
}

// Create records an upload for a session.
func (r *MemoryRepo) Create(ctx context.Context, m Media) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[m.SessionID] = append(r.data[m.SessionID], m)
	return nil
}

// GetByID returns an upload by ID for a session.
func (r *MemoryRepo) GetByID(ctx context.Context, sessionID, mediaID string) (Media, error) {
	if err := ctx.Err(); err != nil {
		return Media{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.data[sessionID]
	for i := range items {
		if items[i].ID == mediaID {
			return items[i], nil
		}
	}
	return Media{}, ErrNotFound
}

// ListBySession returns uploads for a session, newest first, honoring limit/offset.
func (r *MemoryRepo) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]Media, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	sessionItems := r.data[sessionID]
	r.mu.RUnlock()

	if len(sessionItems) == 0 || offset >= len(sessionItems) {
		return []Media{}, nil
	}

	items := make([]Media, len(sessionItems))
	copy(items, sessionItems)
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return items[offset:end], nil
}

var _ MediaRepo = (*MemoryRepo)(nil)
