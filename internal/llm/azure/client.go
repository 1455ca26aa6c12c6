package azure

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"shelfvision-backend/internal/llm"
)

// Client implements llm.Client using Azure OpenAI chat completions.
type Client struct {
	cli        *openai.Client
	deployment string
}

// NewClient constructs a new Azure OpenAI client. Missing credentials are a
// configuration error surfaced immediately rather than at first call.
func NewClient(endpoint, apiKey, apiVersion, deployment string) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" || strings.TrimSpace(apiKey) == "" {
		return nil, llm.ErrMissingCredentials
	}
	if strings.TrimSpace(deployment) == "" {
		return nil, fmt.Errorf("AZURE_OPENAI_DEPLOYMENT_NAME is required")
	}

	cfg := openai.DefaultAzureConfig(apiKey, endpoint)
	if v := strings.TrimSpace(apiVersion); v != "" {
		cfg.APIVersion = v
	}

	return &Client{
		cli:        openai.NewClientWithConfig(cfg),
		deployment: deployment,
	}, nil
}

// Complete performs one chat completion, attaching the image when present.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: req.System},
	}

	if req.ImageB64 != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: req.User},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL: "data:image/jpeg;base64," + req.ImageB64,
					},
				},
			},
		})
	} else {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.User,
		})
	}

	resp, err := c.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.deployment,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: wireTemperature(req.Temperature),
		TopP:        req.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("azure chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("azure chat completion: response missing choices")
	}

	logUsage(c.deployment, resp.Usage)

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// wireTemperature keeps a requested temperature of 0 on the wire. The
// go-openai request field is tagged omitempty, so a literal 0 would be
// dropped and the provider would decode at its default of 1.0.
func wireTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

func logUsage(deployment string, usage openai.Usage) {
	log.Printf("llm response deployment=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
		deployment, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
}

var _ llm.Client = (*Client)(nil)
