package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/custodia-labs/askdesk/internal/core/domain"
	"github.com/custodia-labs/askdesk/internal/core/ports/driven"
)

// Ensure DocumentStore implements both storage ports.
var (
	_ driven.DocumentStore = (*DocumentStore)(nil)
	_ driven.SearchEngine  = (*DocumentStore)(nil)
)

// DocumentStore is an in-memory implementation of driven.DocumentStore and
// driven.SearchEngine. A document and its postings are written under one lock.
type DocumentStore struct {
	mu        sync.RWMutex
	nextID    int64
	documents map[int64]domain.Document
	postings  map[string]map[int64]int // term -> document -> frequency
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[int64]domain.Document),
		postings:  make(map[string]map[int64]int),
	}
}

// Insert stores a document and indexes it.
func (s *DocumentStore) Insert(ctx context.Context, title, content string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.documents[id] = domain.Document{
		ID:        id,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	s.index(id, title, content)
	return id, nil
}

// index adds postings for a document. Caller holds the write lock.
func (s *DocumentStore) index(id int64, title, content string) {
	for _, term := range tokenize(title + " " + content) {
		docs, ok := s.postings[term]
		if !ok {
			docs = make(map[int64]int)
			s.postings[term] = docs
		}
		docs[id]++
	}
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id int64) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListRecent returns up to limit documents, newest first.
func (s *DocumentStore) ListRecent(_ context.Context, limit int) ([]domain.DocumentSummary, error) {
	if limit <= 0 {
		limit = domain.DefaultListLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.DocumentSummary, 0, min(limit, len(s.documents)))
	for id := s.nextID; id > 0 && len(items) < limit; id-- {
		if doc, ok := s.documents[id]; ok {
			items = append(items, doc.Summary())
		}
	}
	return items, nil
}

// Count returns the number of stored documents.
func (s *DocumentStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents), nil
}

// Search scores documents by the summed frequency of the query terms.
// Upper-case OR/AND/NOT between terms are treated as separators.
func (s *DocumentStore) Search(ctx context.Context, query string, limit int) ([]driven.SearchHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []driven.SearchHit{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scores := make(map[int64]float64)
	for _, field := range strings.Fields(query) {
		switch field {
		case "OR", "AND", "NOT":
			continue
		}
		for _, term := range tokenize(field) {
			for id, freq := range s.postings[term] {
				scores[id] += float64(freq)
			}
		}
	}

	hits := make([]driven.SearchHit, 0, len(scores))
	for id, score := range scores {
		hits = append(hits, driven.SearchHit{DocumentID: id, Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].DocumentID < hits[j].DocumentID
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// CheckIndex reports whether every document has postings. Inserts and
// postings share a lock so this only fails for documents with no terms.
func (s *DocumentStore) CheckIndex(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	indexed := make(map[int64]bool, len(s.documents))
	for _, docs := range s.postings {
		for id := range docs {
			if _, ok := s.documents[id]; !ok {
				return domain.ErrIndexInconsistent
			}
			indexed[id] = true
		}
	}
	for id, doc := range s.documents {
		if !indexed[id] && len(tokenize(doc.Title+" "+doc.Content)) > 0 {
			return domain.ErrIndexInconsistent
		}
	}
	return nil
}

// RebuildIndex re-derives all postings from the stored documents.
func (s *DocumentStore) RebuildIndex(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.postings = make(map[string]map[int64]int)
	for id, doc := range s.documents {
		s.index(id, doc.Title, doc.Content)
	}
	return nil
}

// tokenize lower-cases text and splits it on anything that is not a letter or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
