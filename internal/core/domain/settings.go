package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies a remote completion provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderCompatible is any server speaking the OpenAI chat API
	// (LM Studio, vLLM, llama.cpp server). BaseURL is required.
	AIProviderCompatible AIProvider = "compatible"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI, AIProviderAnthropic, AIProviderOllama, AIProviderCompatible:
		return true
	default:
		return false
	}
}

// AllAIProviders returns the supported providers in display order.
func AllAIProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini, AIProviderOpenAI, AIProviderAnthropic, AIProviderOllama, AIProviderCompatible,
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI || p == AIProviderAnthropic
}

// RequiresBaseURL returns true if this provider has no default endpoint.
func (p AIProvider) RequiresBaseURL() bool {
	return p == AIProviderCompatible
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderCompatible
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderCompatible:
		return "OpenAI-compatible server"
	default:
		return unknownDescription
	}
}

// LLMSettings holds remote completion configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name. Empty selects the provider default.
	Model string

	// BaseURL is the API endpoint. Empty selects the provider default.
	BaseURL string

	// APIKey is the credential for cloud providers.
	APIKey string

	// MaxTokens bounds the generated output.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// Timeout bounds a single generation call.
	Timeout time.Duration
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	if l.Provider.RequiresBaseURL() && l.BaseURL == "" {
		return false
	}
	return true
}

// StoreSettings locates the document database.
type StoreSettings struct {
	// Path is the SQLite database file.
	Path string
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// WebhookSecret guards the ingestion endpoint.
	WebhookSecret string

	// StaticDir holds the chat UI assets.
	StaticDir string
}

// RAGSettings configures retrieval and context assembly.
type RAGSettings struct {
	// TopK is the number of documents placed in the context.
	TopK int

	// ContextMaxChars bounds the assembled context. Zero means unbounded.
	ContextMaxChars int

	// IngestWorkers is the worker pool size for batch ingestion.
	IngestWorkers int
}

// AppSettings holds all resolved configuration.
type AppSettings struct {
	Store  StoreSettings
	Server ServerSettings
	LLM    LLMSettings
	RAG    RAGSettings

	// SystemPrompt overrides the system instructions when non-empty.
	SystemPrompt string
}

// Default values shared by the settings service and the CLI help text.
const (
	DefaultWebhookSecret   = "changeme_secret"
	DefaultAddr            = ":8000"
	DefaultStaticDir       = "static"
	DefaultTopK            = 3
	DefaultIngestWorkers   = 4
	DefaultListLimit       = 20
	MaxResultLimit         = 100
	DefaultMaxTokens       = 1024
	DefaultTemperature     = 0.1
	DefaultGenerateTimeout = 30 * time.Second
)

// DefaultAppSettings returns sensible defaults. Store.Path is left empty and
// resolved against the data directory by the caller.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Server: ServerSettings{
			Addr:          DefaultAddr,
			WebhookSecret: DefaultWebhookSecret,
			StaticDir:     DefaultStaticDir,
		},
		LLM: LLMSettings{
			Provider:    AIProviderGemini,
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
			Timeout:     DefaultGenerateTimeout,
		},
		RAG: RAGSettings{
			TopK:          DefaultTopK,
			IngestWorkers: DefaultIngestWorkers,
		},
	}
}
