// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/askdesk/internal/core/domain"
)

// AnswerRequested is sent when the user submits a question.
type AnswerRequested struct {
	Question string
}

// AnswerCompleted carries the pipeline result back to the model.
type AnswerCompleted struct {
	Question string
	Answer   *domain.Answer
	Err      error
}
