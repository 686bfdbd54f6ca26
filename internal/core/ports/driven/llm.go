package driven

import (
	"context"
	"strconv"
)

// LLMService provides remote text completion.
// This is an optional service - when nil, answers degrade to a
// configuration message while retrieval keeps working.
//
// Implementations may include:
//   - Google Gemini
//   - OpenAI (GPT-4o family)
//   - Anthropic (Claude)
//   - Ollama (local models)
//   - Any OpenAI-compatible server (LM Studio, vLLM)
type LLMService interface {
	// Chat sends the messages and returns the generated text.
	// A "system" message, if present, carries the instructions.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a request.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures generation behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// ProviderError is returned by LLM adapters when the provider answers
// with a non-success status.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return e.Provider + " error: " + e.Message
	}
	return e.Provider + " error (status " + strconv.Itoa(e.StatusCode) + "): " + e.Message
}
