package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"shelfvision-backend/internal/llm"
	"shelfvision-backend/internal/ratelimit"
	"shelfvision-backend/internal/shared/metrics"
	"shelfvision-backend/internal/shared/telemetry"
)

func encodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read frame %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// analyzeFrame runs one vision call for a single frame. Call failures never
// abort the run; they produce a placeholder string so downstream aggregation
// sees every sampled frame index exactly once.
func analyzeFrame(ctx context.Context, client llm.Client, limiter *ratelimit.Limiter, question string, category Category, frame FrameInput, timeout time.Duration) FrameResult {
	result := FrameResult{FrameIndex: frame.Index, TimestampMS: frame.TimestampMS}

	if err := limiter.Admit(ctx, 0); err != nil {
		result.Raw = fmt.Sprintf("[Skipped frame %d due to error: %s]", frame.Index, err)
		metrics.IncFrameSkipped()
		return result
	}

	imageB64 := frame.ImageB64
	if imageB64 == "" {
		encoded, err := encodeImageFile(frame.Path)
		if err != nil {
			result.Raw = fmt.Sprintf("[Skipped frame %d due to error: %s]", frame.Index, err)
			metrics.IncFrameSkipped()
			return result
		}
		imageB64 = encoded
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	out, err := client.Complete(cctx, llm.Request{
		System:      frameSystemPrompt,
		User:        buildFramePrompt(question, category, frame.Index, frame.TimestampMS),
		ImageB64:    imageB64,
		MaxTokens:   2048,
		Temperature: 0.1,
		TopP:        1.0,
	})
	metrics.ObserveFrameDurationMs(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.IncFrameSkipped()
		telemetry.Error("frame.skipped", map[string]any{
			"frame": frame.Index,
			"error": err.Error(),
		})
		switch llm.ClassifyError(err) {
		case llm.KindTimeout:
			result.Raw = fmt.Sprintf("[Skipped frame %d due to timeout. Try again later.]", frame.Index)
		case llm.KindNetwork:
			result.Raw = fmt.Sprintf("[Skipped frame %d due to connection error. Check your internet connection.]", frame.Index)
		default:
			result.Raw = fmt.Sprintf("[Skipped frame %d due to error: %s]", frame.Index, err)
		}
		return result
	}

	metrics.IncFrameAnalyzed()
	result.Raw = out
	return result
}
