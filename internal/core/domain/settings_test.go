package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAIProvider_IsValid tests all valid and invalid providers
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{"gemini is valid", AIProviderGemini, true},
		{"openai is valid", AIProviderOpenAI, true},
		{"anthropic is valid", AIProviderAnthropic, true},
		{"ollama is valid", AIProviderOllama, true},
		{"compatible is valid", AIProviderCompatible, true},
		{"empty string is invalid", AIProvider(""), false},
		{"unknown provider is invalid", AIProvider("bard"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_Requirements(t *testing.T) {
	assert.True(t, AIProviderGemini.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.False(t, AIProviderCompatible.RequiresAPIKey())

	assert.True(t, AIProviderCompatible.RequiresBaseURL())
	assert.False(t, AIProviderOllama.RequiresBaseURL())

	assert.True(t, AIProviderOllama.IsLocal())
	assert.False(t, AIProviderGemini.IsLocal())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Google Gemini", AIProviderGemini.Description())
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, "Unknown", AIProvider("x").Description())
	assert.Equal(t, "openai", AIProviderOpenAI.String())
}

// TestLLMSettings_IsConfigured tests configuration detection per provider
func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		expected bool
	}{
		{"gemini without key", LLMSettings{Provider: AIProviderGemini}, false},
		{"gemini with key", LLMSettings{Provider: AIProviderGemini, APIKey: "k"}, true},
		{"ollama without key", LLMSettings{Provider: AIProviderOllama}, true},
		{"compatible without base url", LLMSettings{Provider: AIProviderCompatible}, false},
		{"compatible with base url", LLMSettings{Provider: AIProviderCompatible, BaseURL: "http://localhost:1234/v1"}, true},
		{"invalid provider", LLMSettings{Provider: "nope", APIKey: "k"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	d := DefaultAppSettings()

	assert.Equal(t, AIProviderGemini, d.LLM.Provider)
	assert.Equal(t, 1024, d.LLM.MaxTokens)
	assert.InDelta(t, 0.1, d.LLM.Temperature, 1e-9)
	assert.Equal(t, DefaultGenerateTimeout, d.LLM.Timeout)
	assert.Equal(t, 3, d.RAG.TopK)
	assert.Equal(t, "changeme_secret", d.Server.WebhookSecret)
	assert.Empty(t, d.Store.Path)
	assert.False(t, d.LLM.IsConfigured(), "defaults carry no credential")
}
