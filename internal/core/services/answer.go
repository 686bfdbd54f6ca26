package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/askdesk/internal/core/domain"
	"github.com/custodia-labs/askdesk/internal/core/ports/driven"
	"github.com/custodia-labs/askdesk/internal/core/ports/driving"
	"github.com/custodia-labs/askdesk/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// AnswerOptions configures the answer pipeline.
type AnswerOptions struct {
	// TopK is the number of documents retrieved per question.
	TopK int

	// ContextMaxChars bounds the assembled context. Zero means unbounded.
	ContextMaxChars int

	// SystemPrompt overrides the prompt store when non-empty.
	SystemPrompt string
}

// AnswerService runs retrieve, assemble and generate for each question.
type AnswerService struct {
	retriever driving.SearchService
	generator *Generator
	prompts   driven.PromptStore
	opts      AnswerOptions
}

// NewAnswerService creates the answer pipeline.
// prompts may be nil, in which case the built-in system prompt is used
// unless opts.SystemPrompt is set.
func NewAnswerService(
	retriever driving.SearchService,
	generator *Generator,
	prompts driven.PromptStore,
	opts AnswerOptions,
) *AnswerService {
	if opts.TopK <= 0 {
		opts.TopK = domain.DefaultTopK
	}
	return &AnswerService{
		retriever: retriever,
		generator: generator,
		prompts:   prompts,
		opts:      opts,
	}
}

// Answer answers a question from the indexed documents.
func (s *AnswerService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	docs := s.retriever.Retrieve(ctx, question, s.opts.TopK)
	contextText := AssembleContextWithBudget(docs, s.opts.ContextMaxChars)
	logger.Debug("Context: %d documents, %d bytes", len(docs), len(contextText))

	answer := s.generator.Generate(ctx, s.systemPrompt(), contextText, question)

	return &domain.Answer{
		Answer:  answer,
		Sources: docs,
		Model:   s.generator.ModelName(),
	}, nil
}

// systemPrompt resolves the system instructions: explicit override,
// then the prompt store, then the built-in default.
func (s *AnswerService) systemPrompt() string {
	if strings.TrimSpace(s.opts.SystemPrompt) != "" {
		return s.opts.SystemPrompt
	}
	if s.prompts != nil {
		prompt, err := s.prompts.Load(driven.PromptAnswerSystem)
		if err == nil && strings.TrimSpace(prompt) != "" {
			return prompt
		}
		if err != nil {
			logger.Warn("loading system prompt: %v", err)
		}
	}
	return domain.DefaultSystemPrompt
}
