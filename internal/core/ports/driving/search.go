package driving

import (
	"context"

	"github.com/custodia-labs/askdesk/internal/core/domain"
)

// SearchService retrieves documents for a free-text query.
type SearchService interface {
	// Retrieve returns up to limit documents, most relevant first.
	// Retrieval never fails: malformed queries and storage errors
	// yield an empty result.
	Retrieve(ctx context.Context, query string, limit int) []domain.Document
}
