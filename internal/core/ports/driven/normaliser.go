package driven

import "github.com/custodia-labs/askdesk/internal/core/domain"

// Normaliser turns the bytes of a file into a document.
// Each normaliser handles a fixed set of file extensions.
type Normaliser interface {
	// Extensions returns the lower-case extensions handled, with the dot.
	Extensions() []string

	// Normalise extracts the title and text. fallbackTitle is used when the
	// content carries no title of its own.
	Normalise(fallbackTitle string, data []byte) domain.NewDocument
}
