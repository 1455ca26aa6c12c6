package llm

import (
	"context"
	"errors"
)

// Client abstracts chat-completion providers for shelf analysis.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request captures one chat-completion invocation. When ImageB64 is set the
// user message carries the encoded JPEG alongside the text.
type Request struct {
	System      string
	User        string
	ImageB64    string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// ErrMissingCredentials is returned when provider credentials are absent.
var ErrMissingCredentials = errors.New("LLM credentials are missing; set AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY")
