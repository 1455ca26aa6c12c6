package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shelfvision-backend/internal/llm"
	"shelfvision-backend/internal/products"
	"shelfvision-backend/internal/ratelimit"
)

type summaryOutput struct {
	Direct    string
	Reasoning string
	Product   string
}

// summarize runs the final summarization call over the combined evidence and
// parses the structured answer out of the model text.
func summarize(ctx context.Context, client llm.Client, limiter *ratelimit.Limiter, question, combinedText string, timeout time.Duration) (summaryOutput, error) {
	if err := limiter.Admit(ctx, 0); err != nil {
		return summaryOutput{}, err
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := client.Complete(cctx, llm.Request{
		System:      summarySystemPrompt,
		User:        buildSummaryPrompt(question, combinedText),
		MaxTokens:   512,
		Temperature: 0.3,
	})
	if err != nil {
		return summaryOutput{}, fmt.Errorf("summarize evidence: %w", err)
	}
	return parseStructuredAnswer(raw, question), nil
}

// parseStructuredAnswer scans the model output for the Direct Answer,
// Reasoning, and product_name markers. Missing markers fall back to pattern
// extraction over the raw text so the caller always gets a usable answer.
func parseStructuredAnswer(raw, question string) summaryOutput {
	var out summaryOutput
	var reasoning []string
	inReasoning := false

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "direct answer:"):
			out.Direct = strings.TrimSpace(trimmed[len("direct answer:"):])
			inReasoning = false
		case strings.HasPrefix(lower, "reasoning:"):
			reasoning = reasoning[:0]
			if rest := strings.TrimSpace(trimmed[len("reasoning:"):]); rest != "" {
				reasoning = append(reasoning, rest)
			}
			inReasoning = true
		case strings.HasPrefix(lower, "product_name"):
			inReasoning = false
		case inReasoning && trimmed != "":
			reasoning = append(reasoning, trimmed)
		}
	}
	out.Reasoning = strings.Join(reasoning, " ")

	if out.Direct == "" {
		out.Direct = products.ExtractProductName(raw)
	}
	if out.Reasoning == "" {
		out.Reasoning = strings.TrimSpace(raw)
	}

	out.Product = resolveProductName(raw, out.Direct, question)
	return out
}

// resolveProductName prefers an explicit marker in the model output, then a
// marker inside the direct answer, then one inside the original question.
func resolveProductName(raw, direct, question string) string {
	for _, source := range []string{raw, direct, question} {
		if name := products.ExtractProductName(source); !products.IsUnknown(name) {
			return name
		}
	}
	return products.UnknownProduct
}
