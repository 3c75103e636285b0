package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonathan/career-advisor/internal/fetch"
)

// OpenRouter identification headers sent with every request.
const (
	openRouterReferer = "https://career-advisor-agent.com"
	openRouterTitle   = "Career Advisor Agent"
)

// OpenRouterClient implements Client for the OpenRouter chat-completions API
// (OpenAI wire format).
type OpenRouterClient struct {
	config *Config
	apiKey string

	mu    sync.Mutex
	usage Usage
}

// NewOpenRouterClient creates a new OpenRouter client.
func NewOpenRouterClient(config *Config, apiKey string) (*OpenRouterClient, error) {
	if apiKey == "" {
		return nil, &AuthError{Provider: string(ProviderOpenRouter), Message: "API key is required"}
	}
	if config == nil {
		config = DefaultOpenRouterConfig()
	}
	if config.BaseURL == "" {
		config = &Config{
			Provider: config.Provider,
			Models:   config.Models,
			BaseURL:  DefaultOpenRouterBaseURL,
			Timeout:  config.Timeout,
		}
	}

	return &OpenRouterClient{config: config, apiKey: apiKey}, nil
}

// chatRequest mirrors the OpenRouter /chat/completions request body.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float32         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse mirrors the relevant fields of the OpenRouter response.
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

// Complete sends a prompt to OpenRouter and returns the raw response text.
func (c *OpenRouterClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	model := resolveModel(c.config, req)
	if model == "" {
		return nil, &TransportError{
			Provider: string(ProviderOpenRouter),
			Message:  "no model configured",
		}
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	body := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	}
	if req.Shape != nil {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	opts := &fetch.Options{
		Timeout: c.config.Timeout,
		Headers: map[string]string{
			"Authorization": "Bearer " + c.apiKey,
			"HTTP-Referer":  openRouterReferer,
			"X-Title":       openRouterTitle,
		},
	}

	var chatResp chatResponse
	url := c.config.BaseURL + "/chat/completions"
	if err := fetch.PostJSON(ctx, url, body, &chatResp, opts); err != nil {
		return nil, mapFetchError(string(ProviderOpenRouter), err)
	}

	if chatResp.Error != nil {
		return nil, &TransportError{
			Provider:   string(ProviderOpenRouter),
			StatusCode: chatResp.Error.Code,
			Message:    chatResp.Error.Message,
		}
	}
	if len(chatResp.Choices) == 0 {
		return nil, &TransportError{
			Provider: string(ProviderOpenRouter),
			Message:  "no choices in response",
		}
	}

	usage := Usage{
		PromptTokens:     chatResp.Usage.PromptTokens,
		CompletionTokens: chatResp.Usage.CompletionTokens,
		TotalTokens:      chatResp.Usage.TotalTokens,
	}
	c.mu.Lock()
	c.usage.add(usage)
	c.mu.Unlock()

	respModel := chatResp.Model
	if respModel == "" {
		respModel = model
	}

	return &Response{
		Text:  chatResp.Choices[0].Message.Content,
		Model: respModel,
		Usage: usage,
	}, nil
}

// Usage returns cumulative token usage across all completed calls.
func (c *OpenRouterClient) Usage() Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

// Close releases resources held by the client.
func (c *OpenRouterClient) Close() error {
	return nil
}

// mapFetchError converts a *fetch.Error into the llm error taxonomy.
func mapFetchError(provider string, err error) error {
	var fetchErr *fetch.Error
	if !errors.As(err, &fetchErr) {
		return &TransportError{Provider: provider, Message: "request failed", Cause: err}
	}

	if fetchErr.Timeout() {
		return &TimeoutError{Provider: provider, Cause: fetchErr}
	}

	switch fetchErr.StatusCode {
	case 0:
		return &TransportError{Provider: provider, Message: "network failure", Cause: fetchErr}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{
			Provider: provider,
			Message:  fmt.Sprintf("credentials rejected (HTTP %d)", fetchErr.StatusCode),
			Cause:    fetchErr,
		}
	case http.StatusTooManyRequests:
		return &RateLimitError{
			Provider:   provider,
			RetryAfter: fetchErr.RetryAfter,
			Message:    "provider throttled the request",
			Cause:      fetchErr,
		}
	default:
		return &TransportError{
			Provider:   provider,
			StatusCode: fetchErr.StatusCode,
			Message:    fetchErr.Message,
			Cause:      fetchErr,
		}
	}
}
