package driving

import (
	"context"

	"github.com/custodia-labs/askdesk/internal/core/domain"
)

// AnswerService answers questions from the indexed documents.
type AnswerService interface {
	// Answer retrieves context for the question and generates a sourced answer.
	// Returns domain.ErrEmptyQuestion for blank input; every other failure is
	// reported inside the returned Answer.
	Answer(ctx context.Context, question string) (*domain.Answer, error)
}

// HealthService reports process liveness.
type HealthService interface {
	// Health returns the liveness signal without touching storage.
	Health() domain.Health
}
