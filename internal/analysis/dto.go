package analysis

import "time"

// AnalysisResponse is the outward-facing representation of a run.
type AnalysisResponse struct {
	AnalysisID  string           `json:"analysisId"`
	MediaID     string           `json:"mediaId"`
	Question    string           `json:"question"`
	Category    string           `json:"category,omitempty"`
	Status      string           `json:"status"`
	Result      *AggregateResult `json:"result,omitempty"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
}

func toResponse(a Analysis) AnalysisResponse {
	resp := AnalysisResponse{
		AnalysisID:  a.ID,
		MediaID:     a.MediaID,
		Question:    a.Question,
		Category:    string(a.Category),
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
		CompletedAt: a.CompletedAt,
	}
	if a.Status == StatusCompleted {
		resp.Result = a.Result
	}
	if a.Status == StatusFailed {
		resp.Error = a.ErrorMessage
	}
	return resp
}
