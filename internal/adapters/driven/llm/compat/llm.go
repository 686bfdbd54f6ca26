// Package compat provides an LLM service adapter for servers that speak the
// OpenAI chat completions API (LM Studio, vLLM, llama.cpp server, LocalAI).
// Requests go through the langchaingo OpenAI client.
package compat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/custodia-labs/askdesk/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultModel   = "local-model"
	DefaultTimeout = 120 * time.Second

	// noToken is sent to local servers that don't require authentication.
	noToken = "none"

	// maxErrorBody bounds how much of a failed response is kept.
	maxErrorBody = 64 << 10
)

// Config holds configuration for an OpenAI-compatible server.
type Config struct {
	// BaseURL is the server's API root, e.g. http://localhost:1234/v1 (required).
	BaseURL string

	// APIKey is optional; most local servers ignore it.
	APIKey string

	// Model is the served model name (default: local-model).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides completions through langchaingo.
type LLMService struct {
	client  llms.Model
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewLLMService creates a new OpenAI-compatible LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("compat: base URL is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.APIKey == "" {
		cfg.APIKey = noToken
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	client, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("compat: creating client: %w", err)
	}

	return newWithModel(client, cfg, httpClient), nil
}

func newWithModel(client llms.Model, cfg Config, httpClient *http.Client) *LLMService {
	return &LLMService{
		client:  client,
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

// Chat sends the messages as a single chat completion.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		content = append(content, llms.MessageContent{
			Role:  messageType(msg.Role),
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}

	callOpts := []llms.CallOption{llms.WithTemperature(opts.Temperature)}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}

	response, err := s.client.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		return "", fmt.Errorf("compat: generate: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", nil
	}
	return response.Choices[0].Content, nil
}

func messageType(role string) llms.ChatMessageType {
	switch role {
	case driven.RoleSystem:
		return llms.ChatMessageTypeSystem
	case driven.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

// ModelName returns the name of the served model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks the server's /models endpoint.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("compat: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("compat: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &driven.ProviderError{Provider: "compat", StatusCode: resp.StatusCode, Message: string(body)}
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
