package analysis

import (
	"context"
	"fmt"
	"time"

	"shelfvision-backend/internal/llm"
	"shelfvision-backend/internal/ratelimit"
	"shelfvision-backend/internal/shared/telemetry"
)

// classifyQuery labels the question with one of the supported categories.
// Timeouts and malformed answers degrade to the generic category so the
// run can continue; an unreachable provider aborts the run because every
// later stage would fail the same way.
func classifyQuery(ctx context.Context, client llm.Client, limiter *ratelimit.Limiter, question string, timeout time.Duration) (Category, error) {
	if err := limiter.Admit(ctx, 0); err != nil {
		return "", err
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := client.Complete(cctx, llm.Request{
		System:      classifierSystemPrompt,
		User:        buildClassifierPrompt(question),
		MaxTokens:   10,
		Temperature: 0,
	})
	if err != nil {
		switch llm.ClassifyError(err) {
		case llm.KindNetwork:
			return "", fmt.Errorf("classify query: service unavailable: %w", err)
		default:
			telemetry.Error("classifier.degraded", map[string]any{"error": err.Error()})
			return CategoryGeneric, nil
		}
	}
	return ParseCategory(out), nil
}
