package main

// Run the analysis pipeline against a local file without the HTTP server:
//   go run ./cmd/querytest -media shelf.mp4 -question "Where is Tide detergent?"

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"shelfvision-backend/internal/analysis"
	"shelfvision-backend/internal/llm/azure"
	"shelfvision-backend/internal/ratelimit"
	"shelfvision-backend/internal/shared/config"
	"shelfvision-backend/internal/video"
)

func main() {
	cfg := config.Load()

	mediaPath := flag.String("media", "", "Path to video or image file")
	question := flag.String("question", "", "Question about the shelf")
	interval := flag.Int("interval", cfg.FrameInterval, "Frame sampling interval")
	outPath := flag.String("out", "", "Path to write JSON result (optional)")
	flag.Parse()

	if strings.TrimSpace(*mediaPath) == "" {
		exitErr("media path is required")
	}
	if strings.TrimSpace(*question) == "" {
		exitErr("question is required")
	}

	client, err := azure.NewClient(cfg.AzureOpenAIEndpoint, cfg.AzureOpenAIKey, cfg.AzureOpenAIAPIVersion, cfg.AzureOpenAIDeployment)
	if err != nil {
		exitErr(err.Error())
	}

	limiter := ratelimit.New(ratelimit.Limits{
		TokensPerMinute:   cfg.TokensPerMinute,
		RequestsPerMinute: cfg.RequestsPerMinute,
		EstimatedTokens:   cfg.EstimatedTokens,
	})
	pipe := analysis.NewPipeline(client, limiter, video.NewSampler())
	pipe.MaxConcurrent = cfg.MaxConcurrentCalls

	result, err := pipe.RunVideoQuery(context.Background(), *mediaPath, *question, *interval)
	if err != nil {
		exitErr(err.Error())
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("marshal result: %v", err))
	}

	if strings.TrimSpace(*outPath) != "" {
		if err := os.WriteFile(*outPath, data, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	fmt.Println(string(data))
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, "error: "+msg)
	os.Exit(1)
}
