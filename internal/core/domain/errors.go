package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuestion indicates a blank question was submitted.
	ErrEmptyQuestion = fmt.Errorf("%w: empty query", ErrInvalidInput)

	// ErrUnauthorized indicates a missing or incorrect ingestion secret.
	ErrUnauthorized = errors.New("invalid secret")

	// ErrLLMUnavailable indicates the LLM service is not configured or unreachable.
	// Answers degrade to a configuration message instead of failing.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrUnsupportedType indicates an unknown provider type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrIndexInconsistent indicates the search index and the document table disagree.
	ErrIndexInconsistent = errors.New("search index inconsistent with documents")
)
