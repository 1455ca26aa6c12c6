package analysis

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"

	"shelfvision-backend/internal/llm"
	"shelfvision-backend/internal/ratelimit"
)

// FrameInput is one sampled frame handed to the analyzer. Either Path or a
// pre-encoded ImageB64 must be set; Path wins the race for cleanup.
type FrameInput struct {
	Index       int
	TimestampMS int64
	Path        string
	ImageB64    string
}

// analyzeFrames fans the sampled frames out to a bounded worker pool and
// returns one FrameResult per input, ordered by frame index regardless of
// completion order. Frame files are removed as soon as their call finishes.
func analyzeFrames(ctx context.Context, client llm.Client, limiter *ratelimit.Limiter, question string, category Category, frames []FrameInput, maxConcurrent int, timeout time.Duration) []FrameResult {
	if len(frames) == 0 {
		return nil
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if maxConcurrent > len(frames) {
		maxConcurrent = len(frames)
	}

	jobs := make(chan FrameInput)
	results := make([]FrameResult, 0, len(frames))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < maxConcurrent; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for frame := range jobs {
				res := analyzeFrame(ctx, client, limiter, question, category, frame, timeout)
				if frame.Path != "" {
					os.Remove(frame.Path)
				}
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
		}()
	}

	for _, frame := range frames {
		jobs <- frame
	}
	close(jobs)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].FrameIndex < results[j].FrameIndex
	})
	return results
}
