package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdesk/internal/core/domain"
)

func TestCreateLLMService_NotConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
	}{
		{"nil settings", nil},
		{"gemini without key", &domain.LLMSettings{Provider: domain.AIProviderGemini}},
		{"openai without key", &domain.LLMSettings{Provider: domain.AIProviderOpenAI}},
		{"compatible without url", &domain.LLMSettings{Provider: domain.AIProviderCompatible}},
		{"unknown provider", &domain.LLMSettings{Provider: "mystery", APIKey: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			assert.NoError(t, err)
			assert.Nil(t, svc)
		})
	}
}

func TestCreateLLMService_Providers(t *testing.T) {
	tests := []struct {
		settings  domain.LLMSettings
		wantModel string
	}{
		{domain.LLMSettings{Provider: domain.AIProviderGemini, APIKey: "k"}, "gemini-1.5-flash"},
		{domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k"}, "gpt-4o-mini"},
		{domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"}, "claude-3-5-haiku-latest"},
		{domain.LLMSettings{Provider: domain.AIProviderOllama}, "llama3.2"},
		{domain.LLMSettings{Provider: domain.AIProviderCompatible, BaseURL: "http://localhost:1234/v1",
			Model: "qwen2.5-7b-instruct"}, "qwen2.5-7b-instruct"},
		{domain.LLMSettings{Provider: domain.AIProviderGemini, APIKey: "k", Model: "gemini-2.0-flash"}, "gemini-2.0-flash"},
	}

	for _, tt := range tests {
		t.Run(string(tt.settings.Provider)+"/"+tt.wantModel, func(t *testing.T) {
			settings := tt.settings
			svc, err := CreateLLMService(&settings)
			require.NoError(t, err)
			require.NotNil(t, svc)
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestValidateLLMConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models":[]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	ok := &domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL}
	assert.NoError(t, ValidateLLMConfig(context.Background(), ok))

	unreachable := &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", BaseURL: server.URL}
	assert.ErrorIs(t, ValidateLLMConfig(context.Background(), unreachable), domain.ErrLLMUnavailable)

	assert.ErrorIs(t, ValidateLLMConfig(context.Background(), &domain.LLMSettings{}), domain.ErrLLMUnavailable)
}
