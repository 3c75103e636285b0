package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config

	mu    sync.Mutex
	usage Usage
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, &AuthError{Provider: string(ProviderGemini), Message: "API key is required"}
	}
	if config == nil {
		config = DefaultGeminiConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &TransportError{
			Provider: string(ProviderGemini),
			Message:  "failed to create Gemini client",
			Cause:    err,
		}
	}

	return &GeminiClient{client: client, config: config}, nil
}

// Complete sends a prompt to Gemini and returns the raw response text.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	modelName := resolveModel(c.config, req)
	if modelName == "" {
		return nil, &TransportError{
			Provider: string(ProviderGemini),
			Message:  "no model configured",
		}
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.Shape != nil {
		model.ResponseMIMEType = "application/json"
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, mapGeminiError(err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, err
	}

	var usage Usage
	if resp.UsageMetadata != nil {
		usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	c.mu.Lock()
	c.usage.add(usage)
	c.mu.Unlock()

	return &Response{Text: text, Model: modelName, Usage: usage}, nil
}

// Usage returns cumulative token usage across all completed calls.
func (c *GeminiClient) Usage() Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// mapGeminiError converts SDK errors into the llm error taxonomy.
func mapGeminiError(err error) error {
	provider := string(ProviderGemini)

	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Provider: provider, Cause: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AuthError{Provider: provider, Message: "credentials rejected", Cause: err}
		case http.StatusTooManyRequests:
			return &RateLimitError{Provider: provider, Message: "provider throttled the request", Cause: err}
		default:
			return &TransportError{Provider: provider, StatusCode: apiErr.Code, Message: apiErr.Message, Cause: err}
		}
	}

	return &TransportError{Provider: provider, Message: "failed to generate content", Cause: err}
}

// extractTextFromResponse extracts text from a Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	provider := string(ProviderGemini)

	if len(resp.Candidates) == 0 {
		return "", &TransportError{Provider: provider, Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &TransportError{Provider: provider, Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", &TransportError{Provider: provider, Message: "no text parts in response"}
	}

	return strings.Join(parts, ""), nil
}
