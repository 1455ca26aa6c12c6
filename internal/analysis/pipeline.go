package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"shelfvision-backend/internal/llm"
	"shelfvision-backend/internal/ratelimit"
	"shelfvision-backend/internal/shared/metrics"
	"shelfvision-backend/internal/video"
)

// DefaultFrameInterval is the sampling stride used when a request does not
// specify one.
const DefaultFrameInterval = 23

// FrameSource decodes a video into sampled still frames.
type FrameSource interface {
	Sample(ctx context.Context, videoPath string, interval int) (*video.SampleSet, error)
}

// Pipeline runs the full question-answering flow over an image or a video:
// classify the question, analyze frames with the vision model under the
// shared rate limiter, aggregate the evidence, summarize, and validate.
type Pipeline struct {
	LLM           llm.Client
	Limiter       *ratelimit.Limiter
	Frames        FrameSource
	Policy        EvidencePolicy
	MaxConcurrent int

	ClassifyTimeout time.Duration
	FrameTimeout    time.Duration
	TextTimeout     time.Duration
}

// NewPipeline constructs a Pipeline with the tuned defaults.
func NewPipeline(client llm.Client, limiter *ratelimit.Limiter, frames FrameSource) *Pipeline {
	return &Pipeline{
		LLM:             client,
		Limiter:         limiter,
		Frames:          frames,
		Policy:          DefaultEvidencePolicy(),
		MaxConcurrent:   30,
		ClassifyTimeout: 10 * time.Second,
		FrameTimeout:    30 * time.Second,
		TextTimeout:     30 * time.Second,
	}
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// RunVideoQuery answers a question about a video file. Image files are routed
// to the image path so callers can pass either without checking the type.
func (p *Pipeline) RunVideoQuery(ctx context.Context, videoPath, question string, frameInterval int) (AggregateResult, error) {
	result, _, err := p.Run(ctx, videoPath, question, frameInterval)
	return result, err
}

// RunImageQuery answers a question about a single still image.
func (p *Pipeline) RunImageQuery(ctx context.Context, imagePath, question string) (AggregateResult, error) {
	result, _, err := p.runImage(ctx, imagePath, question)
	return result, err
}

// Run dispatches on the file type and reports the classified category
// alongside the result.
func (p *Pipeline) Run(ctx context.Context, mediaPath, question string, frameInterval int) (AggregateResult, Category, error) {
	if p.LLM == nil {
		return AggregateResult{}, "", llm.ErrMissingCredentials
	}
	if imageExtensions[strings.ToLower(filepath.Ext(mediaPath))] {
		return p.runImage(ctx, mediaPath, question)
	}
	return p.runVideo(ctx, mediaPath, question, frameInterval)
}

func (p *Pipeline) runVideo(ctx context.Context, videoPath, question string, frameInterval int) (AggregateResult, Category, error) {
	if frameInterval < 1 {
		frameInterval = DefaultFrameInterval
	}

	start := time.Now()
	category, err := classifyQuery(ctx, p.LLM, p.Limiter, question, p.ClassifyTimeout)
	if err != nil {
		return AggregateResult{}, category, err
	}

	set, err := p.Frames.Sample(ctx, videoPath, frameInterval)
	if err != nil {
		return AggregateResult{}, category, fmt.Errorf("sample video: %w", err)
	}
	defer set.Cleanup()

	inputs := make([]FrameInput, 0, len(set.Frames))
	for _, f := range set.Frames {
		inputs = append(inputs, FrameInput{Index: f.Index, TimestampMS: f.TimestampMS, Path: f.Path})
	}
	results := analyzeFrames(ctx, p.LLM, p.Limiter, question, category, inputs, p.MaxConcurrent, p.FrameTimeout)

	evidence := aggregateEvidence(results, set.Meta.DurationMS, p.Policy)

	summary, err := summarize(ctx, p.LLM, p.Limiter, question, evidence.Combined, p.TextTimeout)
	if err != nil {
		return AggregateResult{}, category, err
	}

	feedback := validateAnswer(ctx, p.LLM, p.Limiter, question, summary.Direct, summary.Reasoning, evidence.Combined, p.TextTimeout)

	metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Milliseconds()))
	return AggregateResult{
		DirectAnswer:   summary.Direct,
		Reasoning:      summary.Reasoning,
		Timestamps:     evidence.Timestamps,
		ProductName:    summary.Product,
		CriticFeedback: feedback,
	}, category, nil
}

// runImage parses the single frame answer directly; there is no evidence to
// aggregate, so the timestamp list is always empty and no critic pass runs.
func (p *Pipeline) runImage(ctx context.Context, imagePath, question string) (AggregateResult, Category, error) {
	if p.LLM == nil {
		return AggregateResult{}, "", llm.ErrMissingCredentials
	}
	start := time.Now()
	category, err := classifyQuery(ctx, p.LLM, p.Limiter, question, p.ClassifyTimeout)
	if err != nil {
		return AggregateResult{}, category, err
	}

	if err := p.Limiter.Admit(ctx, 0); err != nil {
		return AggregateResult{}, category, err
	}
	imageB64, err := encodeImageFile(imagePath)
	if err != nil {
		return AggregateResult{}, category, err
	}

	cctx, cancel := context.WithTimeout(ctx, p.FrameTimeout)
	defer cancel()
	raw, err := p.LLM.Complete(cctx, llm.Request{
		System:      frameSystemPrompt,
		User:        buildFramePrompt(question, category, -1, 0),
		ImageB64:    imageB64,
		MaxTokens:   2048,
		Temperature: 0.1,
		TopP:        1.0,
	})
	if err != nil {
		return AggregateResult{}, category, fmt.Errorf("analyze image: %w", err)
	}
	metrics.IncFrameAnalyzed()

	parsed := parseStructuredAnswer(raw, question)
	metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Milliseconds()))
	return AggregateResult{
		DirectAnswer: parsed.Direct,
		Reasoning:    parsed.Reasoning,
		Timestamps:   []int64{},
		ProductName:  parsed.Product,
	}, category, nil
}
