package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askdesk/internal/core/domain"
	"github.com/custodia-labs/askdesk/internal/core/ports/driven"
)

// mockSearchEngine implements driven.SearchEngine for testing.
type mockSearchEngine struct {
	hits      []driven.SearchHit
	err       error
	calls     int
	lastQuery string
}

func (m *mockSearchEngine) Search(_ context.Context, query string, limit int) ([]driven.SearchHit, error) {
	m.calls++
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.hits) {
		return m.hits[:limit], nil
	}
	return m.hits, nil
}

func (m *mockSearchEngine) CheckIndex(_ context.Context) error   { return m.err }
func (m *mockSearchEngine) RebuildIndex(_ context.Context) error { return m.err }

// mockDocStore implements driven.DocumentStore with injectable failures.
type mockDocStore struct {
	*memory.DocumentStore
	getErr    error
	insertErr func(title string) error
}

func (m *mockDocStore) GetDocument(ctx context.Context, id int64) (*domain.Document, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.DocumentStore.GetDocument(ctx, id)
}

func (m *mockDocStore) Insert(ctx context.Context, title, content string) (int64, error) {
	if m.insertErr != nil {
		if err := m.insertErr(title); err != nil {
			return 0, err
		}
	}
	return m.DocumentStore.Insert(ctx, title, content)
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	mu       sync.Mutex
	response string
	err      error
	block    bool // wait for ctx to finish before returning
	calls    int
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockLLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.messages = messages
	m.opts = opts
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string           { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompt string
	err    error
}

func (m *mockPromptStore) Load(_ string) (string, error) { return m.prompt, m.err }
func (m *mockPromptStore) Reload()                       {}

// --- Test helpers ---

// seedDocuments are the sample documents shipped with the seed command.
var seedDocuments = []domain.NewDocument{
	{Title: "Onboarding Flow", Content: "When a user signs up, create a profile, send welcome email, and assign to onboarding stage."},
	{Title: "Refund Policy", Content: "Refunds are processed within 7 business days after approval. Refunds require order id and reason."},
	{Title: "API Rate Limits", Content: "Clients are allowed 1000 requests per day. 429 returned when limit exceeded."},
}

func setupSeededStore(t *testing.T) *memory.DocumentStore {
	t.Helper()
	store := memory.NewDocumentStore()
	for _, d := range seedDocuments {
		_, err := store.Insert(context.Background(), d.Title, d.Content)
		require.NoError(t, err)
	}
	return store
}
