package analysis

import (
	"strings"
	"time"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Category is the classified intent bucket of a user's question. It selects
// the per-frame prompt template for the whole run.
type Category string

const (
	CategoryLocation  Category = "location"
	CategoryCount     Category = "count"
	CategoryPrice     Category = "price"
	CategoryBrand     Category = "brand"
	CategoryProductID Category = "product_identification"
	CategoryGeneric   Category = "generic"
)

// ParseCategory normalizes a classifier label onto a known category. The
// model is prompted with "*_query" labels; anything unrecognized maps to
// generic rather than failing.
func ParseCategory(raw string) Category {
	label := strings.ToLower(strings.TrimSpace(raw))
	label = strings.TrimSuffix(label, "_query")
	switch Category(label) {
	case CategoryLocation, CategoryCount, CategoryPrice, CategoryBrand, CategoryProductID, CategoryGeneric:
		return Category(label)
	default:
		return CategoryGeneric
	}
}

// QueryLabel returns the label form used in prompts.
func (c Category) QueryLabel() string {
	switch c {
	case CategoryProductID:
		return string(c)
	default:
		return string(c) + "_query"
	}
}

// FrameResult is the raw model output for one sampled frame. The set of
// results for a run completes in arbitrary order and must be re-sorted by
// frame index before aggregation.
type FrameResult struct {
	FrameIndex  int
	TimestampMS int64
	Raw         string
}

// AggregateResult is the terminal output of one pipeline run.
type AggregateResult struct {
	DirectAnswer   string  `json:"directAnswer"`
	Reasoning      string  `json:"reasoning"`
	Timestamps     []int64 `json:"timestamps"`
	ProductName    string  `json:"productName"`
	CriticFeedback string  `json:"criticFeedback,omitempty"`
}

// Analysis is one query-answering run over an uploaded media item.
type Analysis struct {
	ID            string
	SessionID     string
	MediaID       string
	Question      string
	FrameInterval int
	Category      Category
	Status        string
	Result        *AggregateResult
	ErrorMessage  string
	CreatedAt     time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
}
