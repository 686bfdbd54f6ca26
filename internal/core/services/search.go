package services

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/custodia-labs/askdesk/internal/core/domain"
	"github.com/custodia-labs/askdesk/internal/core/ports/driven"
	"github.com/custodia-labs/askdesk/internal/core/ports/driving"
	"github.com/custodia-labs/askdesk/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService retrieves ranked documents for free-text questions.
type SearchService struct {
	docStore    driven.DocumentStore
	searchIndex driven.SearchEngine
}

// NewSearchService creates a new search service.
func NewSearchService(docStore driven.DocumentStore, searchIndex driven.SearchEngine) *SearchService {
	return &SearchService{
		docStore:    docStore,
		searchIndex: searchIndex,
	}
}

// SanitizeQuery turns raw user text into a full-text query that cannot
// trigger syntax errors. Quotes are removed, the text is split on anything
// that is not a letter or digit, and the distinct lower-cased terms are
// joined with OR. Lower-casing keeps words like "and" or "near" from being
// read as operators. Returns "" when nothing searchable remains.
func SanitizeQuery(raw string) string {
	cleaned := strings.NewReplacer(`"`, "", "'", "").Replace(raw)
	fields := strings.FieldsFunc(cleaned, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		term := strings.ToLower(f)
		if seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}
	return strings.Join(terms, " OR ")
}

// Retrieve returns up to limit documents for the query, most relevant first.
// Limits above domain.MaxResultLimit are clamped.
// Search and storage failures degrade to an empty result.
func (s *SearchService) Retrieve(ctx context.Context, query string, limit int) []domain.Document {
	logger.Section("Retrieval")
	logger.Debug("Raw query: %q", query)

	sanitized := SanitizeQuery(query)
	if sanitized == "" || limit <= 0 {
		logger.Debug("Nothing to search for, returning no documents")
		return []domain.Document{}
	}
	limit = min(limit, domain.MaxResultLimit)
	logger.Debug("Sanitized query: %q (limit %d)", sanitized, limit)

	hits, err := s.searchIndex.Search(ctx, sanitized, limit)
	if err != nil {
		logger.Warn("retrieval degraded: search failed: %v", err)
		return []domain.Document{}
	}
	logger.Debug("Index returned %d hits", len(hits))

	docs, err := s.hydrate(ctx, hits)
	if err != nil {
		logger.Warn("retrieval degraded: loading documents failed: %v", err)
		return []domain.Document{}
	}
	return docs
}

// hydrate loads documents for hits, preserving rank order.
// Hits whose document has disappeared are skipped.
func (s *SearchService) hydrate(ctx context.Context, hits []driven.SearchHit) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, len(hits))
	for _, hit := range hits {
		doc, err := s.docStore.GetDocument(ctx, hit.DocumentID)
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("  Skipping hit %d: document missing", hit.DocumentID)
			continue
		}
		if err != nil {
			return nil, err
		}
		logger.Debug("  [%d] %q score=%.4f", doc.ID, doc.Title, hit.Score)
		docs = append(docs, *doc)
	}
	return docs, nil
}
