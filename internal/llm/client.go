package llm

import (
	"context"
	"strings"
)

// Shape describes the structured response the caller wants back. Name
// identifies the schema; Schema is the JSON Schema source used both to
// put the provider into JSON mode and, by the caller, to validate the
// response after the fact. A Shape instructs the model, it does not
// guarantee conformance.
type Shape struct {
	Name   string
	Schema string
}

// Request is a single completion request.
type Request struct {
	Prompt      string
	Shape       *Shape
	Model       string // empty uses the provider's tier default
	Tier        ModelTier
	Temperature float32
	MaxTokens   int
}

// Usage tracks token consumption, accumulated per client.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

func (u *Usage) add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// Response is the raw provider output plus metadata when available.
type Response struct {
	Text  string
	Model string
	Usage Usage
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete sends a prompt to the provider and returns its raw response
	Complete(ctx context.Context, req Request) (*Response, error)
	// Usage returns cumulative token usage across all completed calls
	Usage() Usage
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderOpenRouter:
		return NewOpenRouterClient(config, apiKey)
	default:
		return NewOpenRouterClient(config, apiKey)
	}
}

// validateRequest applies the shared request constraints before any
// network call is made.
func validateRequest(req Request) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// resolveModel picks the model for a request: explicit model, then the
// configured tier default.
func resolveModel(config *Config, req Request) string {
	if req.Model != "" {
		return req.Model
	}
	tier := req.Tier
	if tier == "" {
		tier = TierStandard
	}
	return config.GetModel(tier)
}
