package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"shelfvision-backend/internal/llm"
)

// stubLLM scripts Complete for the pipeline tests.
type stubLLM struct {
	fn func(ctx context.Context, req llm.Request) (string, error)
}

func (s *stubLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	return s.fn(ctx, req)
}

func TestClassifyQueryMapsKnownLabels(t *testing.T) {
	cases := map[string]Category{
		"location_query":               CategoryLocation,
		"count_query":                  CategoryCount,
		"  Price_Query  ":              CategoryPrice,
		"brand_query":                  CategoryBrand,
		"product_identification_query": CategoryProductID,
		"generic_query":                CategoryGeneric,
	}
	for label, want := range cases {
		client := &stubLLM{fn: func(ctx context.Context, req llm.Request) (string, error) {
			return label, nil
		}}
		got, err := classifyQuery(context.Background(), client, nil, "Where is the Tide?", time.Second)
		if err != nil {
			t.Fatalf("label %q: unexpected error: %v", label, err)
		}
		if got != want {
			t.Fatalf("label %q: got %q, want %q", label, got, want)
		}
	}
}

func TestClassifyQueryUnknownLabelFallsBackToGeneric(t *testing.T) {
	client := &stubLLM{fn: func(ctx context.Context, req llm.Request) (string, error) {
		return "I think this is a question about where a product is.", nil
	}}
	got, err := classifyQuery(context.Background(), client, nil, "Where is the Tide?", time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != CategoryGeneric {
		t.Fatalf("got %q, want %q", got, CategoryGeneric)
	}
}

func TestClassifyQueryTimeoutDegradesToGeneric(t *testing.T) {
	client := &stubLLM{fn: func(ctx context.Context, req llm.Request) (string, error) {
		return "", context.DeadlineExceeded
	}}
	got, err := classifyQuery(context.Background(), client, nil, "How many SKUs are on this shelf?", time.Second)
	if err != nil {
		t.Fatalf("timeout should degrade, got error: %v", err)
	}
	if got != CategoryGeneric {
		t.Fatalf("got %q, want %q", got, CategoryGeneric)
	}
}

func TestClassifyQueryNetworkErrorAbortsRun(t *testing.T) {
	client := &stubLLM{fn: func(ctx context.Context, req llm.Request) (string, error) {
		return "", errors.New("dial tcp: connection refused")
	}}
	_, err := classifyQuery(context.Background(), client, nil, "Where is the Tide?", time.Second)
	if err == nil {
		t.Fatal("expected error for unreachable provider")
	}
	if !strings.Contains(err.Error(), "service unavailable") {
		t.Fatalf("unexpected error: %v", err)
	}
}
