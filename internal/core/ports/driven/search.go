package driven

import "context"

// SearchEngine provides full-text search over stored documents.
// Backed by an SQLite FTS5 index maintained by the DocumentStore.
type SearchEngine interface {
	// Search runs a query in the engine's grammar and returns matching
	// document IDs, most relevant first. Ties are broken by ascending ID.
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)

	// CheckIndex verifies that every document has exactly one index entry.
	// Returns domain.ErrIndexInconsistent when they disagree.
	CheckIndex(ctx context.Context) error

	// RebuildIndex re-derives every index entry from the stored documents.
	RebuildIndex(ctx context.Context) error
}

// SearchHit represents a search result from the engine.
type SearchHit struct {
	// DocumentID is the matched document.
	DocumentID int64

	// Score is the relevance score; higher is more relevant.
	Score float64
}
