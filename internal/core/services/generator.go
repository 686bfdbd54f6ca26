package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/askdesk/internal/core/domain"
	"github.com/custodia-labs/askdesk/internal/core/ports/driven"
	"github.com/custodia-labs/askdesk/internal/logger"
)

// User-facing generation messages.
const (
	MsgNotConfigured = "Configuration Error: no language model provider is configured. " +
		"Set LLM_API_KEY (or GEMINI_API_KEY) and restart."
	MsgEmptyResponse = "The model generated an empty response."
	msgProviderError = "I encountered an issue connecting to the AI provider. (Error: %s)"
)

const answerInstructions = `1. Answer the question using ONLY the context above.
2. If the context does not contain the answer, say that you don't know.
3. Keep a professional and concise tone.`

// GeneratorOptions bounds a single generation call.
type GeneratorOptions struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultGeneratorOptions returns the default generation parameters.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		MaxTokens:   domain.DefaultMaxTokens,
		Temperature: domain.DefaultTemperature,
		Timeout:     domain.DefaultGenerateTimeout,
	}
}

// Generator turns a context block and a question into an answer.
// It always returns text: failures become plain-language messages.
type Generator struct {
	llm  driven.LLMService
	opts GeneratorOptions
}

// NewGenerator creates a generator. llm may be nil when no provider is configured.
func NewGenerator(llm driven.LLMService, opts GeneratorOptions) *Generator {
	defaults := DefaultGeneratorOptions()
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaults.MaxTokens
	}
	if opts.Temperature < 0 {
		opts.Temperature = defaults.Temperature
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	return &Generator{llm: llm, opts: opts}
}

// Configured reports whether a provider is available.
func (g *Generator) Configured() bool {
	return g.llm != nil
}

// ModelName returns the configured model, or "" when unconfigured.
func (g *Generator) ModelName() string {
	if !g.Configured() {
		return ""
	}
	return g.llm.ModelName()
}

// BuildMessages returns the system and user messages sent to the provider.
func BuildMessages(systemInstructions, contextText, question string) []driven.ChatMessage {
	user := "CONTEXT INFORMATION:\n" + contextText +
		"\n\nUSER QUESTION:\n" + question +
		"\n\nINSTRUCTIONS:\n" + answerInstructions

	return []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: systemInstructions},
		{Role: driven.RoleUser, Content: user},
	}
}

// Generate produces an answer for question grounded in contextText.
func (g *Generator) Generate(ctx context.Context, systemInstructions, contextText, question string) string {
	logger.Section("Generation")

	if !g.Configured() {
		logger.Debug("No LLM configured")
		return MsgNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	logger.Debug("Model: %s, max_tokens=%d, temperature=%.2f, timeout=%s",
		g.llm.ModelName(), g.opts.MaxTokens, g.opts.Temperature, g.opts.Timeout)

	text, err := g.llm.Chat(ctx, BuildMessages(systemInstructions, contextText, question), driven.ChatOptions{
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	})
	if err != nil {
		logger.Error("generation failed: %v", err)
		return fmt.Sprintf(msgProviderError, errorTag(ctx, err))
	}

	if strings.TrimSpace(text) == "" {
		logger.Warn("model %s returned an empty response", g.llm.ModelName())
		return MsgEmptyResponse
	}
	return text
}

// errorTag classifies a provider failure without leaking its details.
func errorTag(ctx context.Context, err error) string {
	var perr *driven.ProviderError
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return "canceled"
	case errors.As(err, &perr) && perr.StatusCode > 0:
		return fmt.Sprintf("status %d", perr.StatusCode)
	default:
		return "request failed"
	}
}
