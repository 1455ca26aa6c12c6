package media

import (
	"errors"
	"strings"
	"time"
)

// Kind distinguishes the two analyzable media types.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Media represents an uploaded shelf recording or photo owned by a session.
type Media struct {
	ID         string
	SessionID  string
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	Kind       Kind
	CreatedAt  time.Time
}

var (
	ErrNotFound     = errors.New("media not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnsupported  = errors.New("unsupported media type")
)

var allowedMimeTypes = map[string]Kind{
	"video/mp4":       KindVideo,
	"video/quicktime": KindVideo,
	"image/jpeg":      KindImage,
	"image/png":       KindImage,
}

// KindForMime maps a detected MIME type to a media kind. Octet-stream
// detections fall back to the file extension because content sniffing does
// not recognize every MP4 variant.
func KindForMime(mimeType, fileName string) (Kind, bool) {
	base := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	if kind, ok := allowedMimeTypes[base]; ok {
		return kind, true
	}
	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".mp4"), strings.HasSuffix(lower, ".mov"):
		return KindVideo, true
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return KindImage, true
	case strings.HasSuffix(lower, ".png"):
		return KindImage, true
	}
	return "", false
}
