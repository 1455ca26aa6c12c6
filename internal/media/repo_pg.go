package media

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements MediaRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new media record.
func (r *PGRepo) Create(ctx context.Context, m Media) error {
	const query = `
INSERT INTO media (
    id,
    session_id,
    file_name,
    mime_type,
    size_bytes,
    storage_key,
    kind,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var storageKey sql.NullString
	if m.StorageKey != "" {
		storageKey = sql.NullString{String: m.StorageKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		m.ID,
		m.SessionID,
		m.FileName,
		m.MimeType,
		m.SizeBytes,
		storageKey,
		string(m.Kind),
		m.CreatedAt,
	)
	return err
}

// GetByID fetches a media record by ID for a session.
func (r *PGRepo) GetByID(ctx context.Context, sessionID, mediaID string) (Media, error) {
	const query = `
SELECT id, session_id, file_name, mime_type, size_bytes, storage_key, kind, created_at
FROM media
WHERE session_id = $1 AND id = $2
LIMIT 1`
	var m Media
	var storageKey sql.NullString
	var kind string
	err := r.DB.QueryRowContext(ctx, query, sessionID, mediaID).Scan(
		&m.ID,
		&m.SessionID,
		&m.FileName,
		&m.MimeType,
		&m.SizeBytes,
		&storageKey,
		&kind,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Media{}, ErrNotFound
		}
		return Media{}, err
	}
	if storageKey.Valid {
		m.StorageKey = storageKey.String
	}
	m.Kind = Kind(kind)
	return m, nil
}

// ListBySession lists media ordered newest-first.
func (r *PGRepo) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]Media, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, session_id, file_name, mime_type, size_bytes, storage_key, kind, created_at
FROM media
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Media
	for rows.Next() {
		var m Media
		var storageKey sql.NullString
		var kind string
		if err := rows.Scan(
			&m.ID,
			&m.SessionID,
			&m.FileName,
			&m.MimeType,
			&m.SizeBytes,
			&storageKey,
			&kind,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		if storageKey.Valid {
			m.StorageKey = storageKey.String
		}
		m.Kind = Kind(kind)
		out = append(out, m)
	}
	return out, rows.Err()
}

var _ MediaRepo = (*PGRepo)(nil)
