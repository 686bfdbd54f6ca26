package compat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/custodia-labs/askdesk/internal/core/ports/driven"
)

// fakeModel implements llms.Model and records the last call.
type fakeModel struct {
	messages []llms.MessageContent
	opts     llms.CallOptions
	response *llms.ContentResponse
	err      error
}

func (f *fakeModel) GenerateContent(
	_ context.Context, messages []llms.MessageContent, options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, o := range options {
		o(&f.opts)
	}
	return f.response, f.err
}

func (f *fakeModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return "", errors.New("not used")
}

func TestNewLLMService_RequiresBaseURL(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.Error(t, err)

	svc, err := NewLLMService(Config{BaseURL: "http://localhost:1234/v1"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, noToken, svc.apiKey)
}

func TestChat_MapsRolesAndOptions(t *testing.T) {
	model := &fakeModel{response: &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "Clients get 1000 requests per day."}},
	}}
	svc := newWithModel(model, Config{BaseURL: "http://x", Model: "m"}, http.DefaultClient)

	text, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "sys"},
		{Role: driven.RoleUser, Content: "q"},
		{Role: driven.RoleAssistant, Content: "a"},
	}, driven.ChatOptions{MaxTokens: 256, Temperature: 0.1})

	require.NoError(t, err)
	assert.Equal(t, "Clients get 1000 requests per day.", text)
	require.Len(t, model.messages, 3)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, model.messages[2].Role)
	assert.Equal(t, 256, model.opts.MaxTokens)
	assert.InDelta(t, 0.1, model.opts.Temperature, 1e-9)
}

func TestChat_NoChoices(t *testing.T) {
	svc := newWithModel(&fakeModel{response: &llms.ContentResponse{}}, Config{BaseURL: "http://x"}, http.DefaultClient)

	text, err := svc.Chat(context.Background(), nil, driven.ChatOptions{})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestChat_Error(t *testing.T) {
	svc := newWithModel(&fakeModel{err: context.DeadlineExceeded}, Config{BaseURL: "http://x"}, http.DefaultClient)

	_, err := svc.Chat(context.Background(), nil, driven.ChatOptions{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestChat_AgainstServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m",` +
			`"choices":[{"index":0,"message":{"role":"assistant","content":"hello"},"finish_reason":"stop"}],` +
			`"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{BaseURL: server.URL + "/v1", Model: "m"})
	require.NoError(t, err)

	text, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: driven.RoleUser, Content: "hi"}},
		driven.ChatOptions{MaxTokens: 8})
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{BaseURL: server.URL + "/v1"})
	require.NoError(t, err)
	assert.NoError(t, svc.Ping(context.Background()))
}

func TestPing_ErrorBodyIsBounded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(strings.Repeat("x", 1<<20)))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{BaseURL: server.URL + "/v1"})
	require.NoError(t, err)
	err = svc.Ping(context.Background())

	var perr *driven.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusServiceUnavailable, perr.StatusCode)
	assert.Len(t, perr.Message, maxErrorBody)
}
