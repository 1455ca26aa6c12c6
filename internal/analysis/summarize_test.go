package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"shelfvision-backend/internal/llm"
)

func TestParseStructuredAnswerFullForm(t *testing.T) {
	raw := "Direct Answer: On the top shelf, left side.\n" +
		"Reasoning: A blue bottle labeled Tide is visible on the top-left shelf.\n" +
		"product_name = Tide Detergent"

	out := parseStructuredAnswer(raw, "Where is the Tide detergent?")

	if out.Direct != "On the top shelf, left side." {
		t.Fatalf("direct = %q", out.Direct)
	}
	if out.Reasoning != "A blue bottle labeled Tide is visible on the top-left shelf." {
		t.Fatalf("reasoning = %q", out.Reasoning)
	}
	if out.Product != "Tide Detergent" {
		t.Fatalf("product = %q", out.Product)
	}
}

func TestParseStructuredAnswerMultiLineReasoning(t *testing.T) {
	raw := "Direct Answer: Three bottles.\n" +
		"Reasoning: Two bottles stand on the middle shelf.\n" +
		"A third is on the shelf below.\n" +
		"product_name = Spring Water"

	out := parseStructuredAnswer(raw, "How many water bottles are there?")

	if out.Reasoning != "Two bottles stand on the middle shelf. A third is on the shelf below." {
		t.Fatalf("reasoning = %q", out.Reasoning)
	}
	if out.Product != "Spring Water" {
		t.Fatalf("product = %q", out.Product)
	}
}

func TestParseStructuredAnswerCaseInsensitiveMarkers(t *testing.T) {
	raw := "DIRECT ANSWER: Yes, on the bottom shelf.\nREASONING: The box sits at floor level."

	out := parseStructuredAnswer(raw, "Is the cereal in stock? product_name = Corn Flakes")

	if out.Direct != "Yes, on the bottom shelf." {
		t.Fatalf("direct = %q", out.Direct)
	}
	if out.Reasoning != "The box sits at floor level." {
		t.Fatalf("reasoning = %q", out.Reasoning)
	}
	if out.Product != "Corn Flakes" {
		t.Fatalf("product should fall back to the question marker, got %q", out.Product)
	}
}

func TestParseStructuredAnswerUnstructuredFallback(t *testing.T) {
	raw := "The shelf appears fully stocked with assorted snacks."

	out := parseStructuredAnswer(raw, "What is on the shelf?")

	if out.Reasoning != raw {
		t.Fatalf("reasoning should fall back to the full text, got %q", out.Reasoning)
	}
	if out.Product != "Unknown" {
		t.Fatalf("product = %q, want Unknown", out.Product)
	}
}

func TestSummarizeWrapsClientError(t *testing.T) {
	client := &stubLLM{fn: func(ctx context.Context, req llm.Request) (string, error) {
		return "", errors.New("boom")
	}}
	_, err := summarize(context.Background(), client, nil, "Where is it?", "evidence", time.Second)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "summarize evidence") {
		t.Fatalf("unexpected error: %v", err)
	}
}
