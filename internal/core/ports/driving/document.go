package driving

import (
	"context"

	"github.com/custodia-labs/askdesk/internal/core/domain"
)

// DocumentService manages the document collection.
type DocumentService interface {
	// Ingest stores and indexes a new document, returning its ID.
	Ingest(ctx context.Context, title, content string) (int64, error)

	// IngestBatch ingests documents concurrently and returns their IDs in input order.
	IngestBatch(ctx context.Context, docs []domain.NewDocument) ([]int64, error)

	// ListRecent returns up to limit documents, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.DocumentSummary, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id int64) (*domain.Document, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// CheckIndex verifies the search index matches the stored documents.
	CheckIndex(ctx context.Context) error

	// RebuildIndex re-derives the search index from the stored documents.
	RebuildIndex(ctx context.Context) error
}
