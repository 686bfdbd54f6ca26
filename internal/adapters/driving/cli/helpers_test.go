package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askdesk/internal/core/domain"
	"github.com/custodia-labs/askdesk/internal/core/ports/driven"
	"github.com/custodia-labs/askdesk/internal/core/services"
)

// stubLLM answers every request with a fixed string.
type stubLLM struct {
	answer string
}

func (s *stubLLM) Chat(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
	return s.answer, nil
}
func (s *stubLLM) ModelName() string          { return "stub-model" }
func (s *stubLLM) Ping(context.Context) error { return nil }
func (s *stubLLM) Close() error               { return nil }

type testServices struct {
	docs     *services.DocumentService
	settings *services.SettingsService
}

// setupTestServices wires real services over the in-memory store. Pass a nil
// llm to exercise the unconfigured path.
func setupTestServices(t *testing.T, llm driven.LLMService) *testServices {
	t.Helper()

	store := memory.NewDocumentStore()
	docs, err := services.NewDocumentService(store, store, 2)
	require.NoError(t, err)

	settings := services.NewSettingsService(memory.NewConfigStore(), t.TempDir())
	settings.SetEnvLookup(func(string) (string, bool) { return "", false })

	search := services.NewSearchService(store, store)
	generator := services.NewGenerator(llm, services.DefaultGeneratorOptions())

	SetServices(&Services{
		Settings:  settings,
		Documents: docs,
		Search:    search,
		Answer:    services.NewAnswerService(search, generator, nil, services.AnswerOptions{TopK: domain.DefaultTopK}),
		Health:    services.NewHealthService("Google Gemini"),
	})

	t.Cleanup(func() {
		SetServices(nil)
		docs.Release()
	})
	return &testServices{docs: docs, settings: settings}
}

// executeCommand runs the root command with args and returns its combined output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags restores flag variables, which outlive a single Execute.
func resetFlags() {
	verbose, homeDir, dbPath, useMemory = false, "", "", false
	askJSON = false
	searchLimit, searchJSON = 10, false
	ingestTitle, ingestContent, ingestFile, ingestDir = "", "", "", ""
	seedFile = ""
	docsLimit = domain.DefaultListLimit
	serveAddr = ""
	watchInitial = false
}

func seedSamples(t *testing.T, env *testServices) {
	t.Helper()
	ids, err := env.docs.IngestBatch(context.Background(), sampleDocuments)
	require.NoError(t, err)
	require.Len(t, ids, len(sampleDocuments))
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}
