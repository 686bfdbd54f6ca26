package driven

import (
	"context"

	"github.com/custodia-labs/askdesk/internal/core/domain"
)

// DocumentStore persists documents.
// Backed by SQLite for durable storage.
//
// Insert writes the document and its search index entry as one unit:
// either both exist afterwards or neither does. There is no update or
// delete path.
type DocumentStore interface {
	// Insert appends a document and indexes it atomically, returning the new ID.
	Insert(ctx context.Context, title, content string) (int64, error)

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id int64) (*domain.Document, error)

	// ListRecent returns up to limit documents, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.DocumentSummary, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)
}
