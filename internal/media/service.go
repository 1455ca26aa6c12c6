package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"shelfvision-backend/internal/shared/storage/object"
	"shelfvision-backend/internal/shared/storage/object/local"
	"shelfvision-backend/internal/shared/telemetry"
)

// Service contains business logic for uploaded media.
type Service struct {
	Store object.ObjectStore
	Repo  MediaRepo
}

// Upload saves the file to object storage, validates its type, and records
// the media. The size cap is enforced by the HTTP layer before the body
// reaches the service.
func (s *Service) Upload(ctx context.Context, sessionID, fileName string, r io.Reader) (Media, error) {
	if fileName == "" {
		return Media{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, sessionID, fileName, r)
	if err != nil {
		return Media{}, err
	}

	kind, ok := KindForMime(mimeType, fileName)
	if !ok {
		s.discard(ctx, storageKey)
		return Media{}, fmt.Errorf("%w: %s", ErrUnsupported, mimeType)
	}

	m := Media{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		Kind:       kind,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, m); err != nil {
		s.discard(ctx, storageKey)
		return Media{}, err
	}

	return m, nil
}

// discard removes an object whose upload was rejected so nothing unrecorded
// lingers in the store.
func (s *Service) discard(ctx context.Context, storageKey string) {
	if err := s.Store.Delete(ctx, storageKey); err != nil {
		telemetry.Error("media.discard", map[string]any{
			"storage_key": storageKey,
			"error":       err.Error(),
		})
	}
}

// Get returns a single upload for a session.
func (s *Service) Get(ctx context.Context, sessionID, mediaID string) (Media, error) {
	if sessionID == "" || mediaID == "" {
		return Media{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, sessionID, mediaID)
}

// List returns uploads for a session, newest first.
func (s *Service) List(ctx context.Context, sessionID string, limit, offset int) ([]Media, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListBySession(ctx, sessionID, limit, offset)
}

// ResolvePath materializes a stored object as a readable file on local disk
// for frame decoding. Locally stored objects are served in place; remote
// objects are copied to a scratch file. Callers must always invoke cleanup.
func (s *Service) ResolvePath(ctx context.Context, m Media) (string, func(), error) {
	noop := func() {}

	if ls, ok := s.Store.(*local.Store); ok {
		path, err := ls.LocalPath(m.StorageKey)
		if err != nil {
			return "", noop, err
		}
		return path, noop, nil
	}

	rc, err := s.Store.Open(ctx, m.StorageKey)
	if err != nil {
		return "", noop, fmt.Errorf("open media %s: %w", m.ID, err)
	}
	defer rc.Close()

	f, err := os.CreateTemp("", "shelfmedia-*"+filepath.Ext(m.FileName))
	if err != nil {
		return "", noop, fmt.Errorf("create scratch file: %w", err)
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", noop, fmt.Errorf("copy media %s: %w", m.ID, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", noop, err
	}

	path := f.Name()
	return path, func() { os.Remove(path) }, nil
}
