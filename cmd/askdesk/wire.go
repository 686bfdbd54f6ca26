package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/askdesk/internal/adapters/driven/ai"
	"github.com/custodia-labs/askdesk/internal/adapters/driven/config/file"
	"github.com/custodia-labs/askdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askdesk/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/askdesk/internal/adapters/driving/cli"
	"github.com/custodia-labs/askdesk/internal/core/ports/driven"
	"github.com/custodia-labs/askdesk/internal/core/services"
	"github.com/custodia-labs/askdesk/internal/logger"
)

// wire builds the service graph for one command invocation.
func wire(opts cli.Options) (*cli.Services, error) {
	home, err := resolveHome(opts.Home)
	if err != nil {
		return nil, err
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, filepath.Join(home, "data"))

	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	if opts.DBPath != "" {
		settings.Store.Path = opts.DBPath
	}

	var (
		docStore    driven.DocumentStore
		searchIndex driven.SearchEngine
		closeStore  = func() error { return nil }
	)
	if opts.Memory {
		store := memory.NewDocumentStore()
		docStore, searchIndex = store, store
		logger.Debug("Using in-memory store")
	} else {
		store, err := sqlite.NewStore(settings.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		docStore, searchIndex = store.DocumentStore(), store.SearchEngine()
		closeStore = store.Close
		logger.Debug("Using store at %s", store.Path())
	}

	llm, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		logger.Warn("language model unavailable: %v", err)
		llm = nil
	}

	generator := services.NewGenerator(llm, services.GeneratorOptions{
		MaxTokens:   settings.LLM.MaxTokens,
		Temperature: settings.LLM.Temperature,
		Timeout:     settings.LLM.Timeout,
	})

	prompts, err := file.NewPromptStore(filepath.Join(home, "prompts"))
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	searchService := services.NewSearchService(docStore, searchIndex)
	answerService := services.NewAnswerService(searchService, generator, prompts, services.AnswerOptions{
		TopK:            settings.RAG.TopK,
		ContextMaxChars: settings.RAG.ContextMaxChars,
		SystemPrompt:    settings.SystemPrompt,
	})

	documentService, err := services.NewDocumentService(docStore, searchIndex, settings.RAG.IngestWorkers)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	llmSettings := settings.LLM
	return &cli.Services{
		Settings:  settingsService,
		Documents: documentService,
		Search:    searchService,
		Answer:    answerService,
		Health:    services.NewHealthService(settings.LLM.Provider.Description()),
		CheckLLM: func(ctx context.Context) error {
			return ai.ValidateLLMConfig(ctx, &llmSettings)
		},
		Close: func() error {
			documentService.Release()
			var errs []error
			if llm != nil {
				errs = append(errs, llm.Close())
			}
			errs = append(errs, closeStore())
			return errors.Join(errs...)
		},
	}, nil
}

// resolveHome returns dir, or ~/.askdesk when dir is empty.
func resolveHome(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if env := os.Getenv("ASKDESK_HOME"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".askdesk"), nil
}
