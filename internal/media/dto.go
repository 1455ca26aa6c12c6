package media

import "time"

// MediaResponse is the outward-facing representation of an upload.
type MediaResponse struct {
	MediaID    string    `json:"mediaId"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	Kind       string    `json:"kind"`
	SizeBytes  int64     `json:"sizeBytes"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func toResponse(m Media) MediaResponse {
	return MediaResponse{
		MediaID:    m.ID,
		FileName:   m.FileName,
		MimeType:   m.MimeType,
		Kind:       string(m.Kind),
		SizeBytes:  m.SizeBytes,
		UploadedAt: m.CreatedAt,
	}
}
