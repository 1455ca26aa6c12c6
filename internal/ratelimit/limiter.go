package ratelimit

import (
	"context"
	"sync"
	"time"

	"shelfvision-backend/internal/shared/metrics"
	"shelfvision-backend/internal/shared/telemetry"
)

// Limits configures the trailing-window admission caps for outbound LLM calls.
type Limits struct {
	TokensPerMinute   int
	RequestsPerMinute int
	EstimatedTokens   int
	Window            time.Duration
	MinWait           time.Duration
}

// DefaultLimits mirrors the provider-side caps the pipeline was tuned for.
func DefaultLimits() Limits {
	return Limits{
		TokensPerMinute:   120000,
		RequestsPerMinute: 1200,
		EstimatedTokens:   1400,
		Window:            60 * time.Second,
		MinWait:           100 * time.Millisecond,
	}
}

type tokenEvent struct {
	at   time.Time
	cost int
}

// Limiter tracks rolling token and request usage in a trailing window and
// delays admissions that would exceed the caps. One instance is shared by
// every call site (classifier, frame analyzer, summarizer, critic) so the
// budget is enforced process-wide.
type Limiter struct {
	mu     sync.Mutex
	limits Limits
	tokens []tokenEvent
	reqs   []time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New constructs a Limiter, filling zero limits with defaults.
func New(limits Limits) *Limiter {
	def := DefaultLimits()
	if limits.TokensPerMinute <= 0 {
		limits.TokensPerMinute = def.TokensPerMinute
	}
	if limits.RequestsPerMinute <= 0 {
		limits.RequestsPerMinute = def.RequestsPerMinute
	}
	if limits.EstimatedTokens <= 0 {
		limits.EstimatedTokens = def.EstimatedTokens
	}
	if limits.Window <= 0 {
		limits.Window = def.Window
	}
	if limits.MinWait <= 0 {
		limits.MinWait = def.MinWait
	}
	return &Limiter{
		limits: limits,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Admit blocks until the call may proceed under the caps, then records its
// estimated cost. It never fails on its own; the only error is a cancelled
// context while waiting. A cost <= 0 uses the configured per-call estimate.
// The recorded cost is an estimate, not a true token count; it only needs to
// keep the process under provider-side hard limits.
func (l *Limiter) Admit(ctx context.Context, estimatedTokens int) error {
	if l == nil {
		return nil
	}
	cost := estimatedTokens
	if cost <= 0 {
		cost = l.limits.EstimatedTokens
	}

	l.mu.Lock()
	now := l.now()
	l.pruneLocked(now)

	currentTokens := 0
	for _, e := range l.tokens {
		currentTokens += e.cost
	}
	currentRequests := len(l.reqs)

	var wait time.Duration
	if currentTokens+cost > l.limits.TokensPerMinute || currentRequests >= l.limits.RequestsPerMinute {
		if currentRequests > 0 {
			wait = l.limits.Window - now.Sub(l.reqs[0])
		}
		if wait < l.limits.MinWait {
			wait = l.limits.MinWait
		}
	}
	l.mu.Unlock()

	if wait > 0 {
		metrics.IncThrottleWait()
		telemetry.Info("ratelimit.throttle", map[string]any{
			"wait_ms":          wait.Milliseconds(),
			"current_tokens":   currentTokens,
			"current_requests": currentRequests,
		})
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}

	l.mu.Lock()
	at := l.now()
	l.tokens = append(l.tokens, tokenEvent{at: at, cost: cost})
	l.reqs = append(l.reqs, at)
	l.mu.Unlock()
	return nil
}

// Load returns the token sum and request count currently retained in the window.
func (l *Limiter) Load() (tokens, requests int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneLocked(l.now())
	for _, e := range l.tokens {
		tokens += e.cost
	}
	return tokens, len(l.reqs)
}

func (l *Limiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.limits.Window)
	i := 0
	for i < len(l.tokens) && !l.tokens[i].at.After(cutoff) {
		i++
	}
	l.tokens = l.tokens[i:]

	j := 0
	for j < len(l.reqs) && !l.reqs[j].After(cutoff) {
		j++
	}
	l.reqs = l.reqs[j:]
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
