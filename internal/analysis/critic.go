package analysis

import (
	"context"
	"strings"
	"time"

	"shelfvision-backend/internal/llm"
	"shelfvision-backend/internal/ratelimit"
	"shelfvision-backend/internal/shared/telemetry"
)

// validateAnswer asks the critic model whether the answer is supported by the
// frame evidence. The verdict is advisory; a failed call yields empty
// feedback and the run still completes.
func validateAnswer(ctx context.Context, client llm.Client, limiter *ratelimit.Limiter, question, directAnswer, reasoning, combinedText string, timeout time.Duration) string {
	if err := limiter.Admit(ctx, 0); err != nil {
		telemetry.Error("critic.skipped", map[string]any{"error": err.Error()})
		return ""
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := client.Complete(cctx, llm.Request{
		System:      criticSystemPrompt,
		User:        buildCriticPrompt(question, directAnswer, reasoning, combinedText),
		MaxTokens:   400,
		Temperature: 0.2,
	})
	if err != nil {
		telemetry.Error("critic.skipped", map[string]any{"error": err.Error()})
		return ""
	}
	return strings.TrimSpace(out)
}
