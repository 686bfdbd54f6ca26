package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/custodia-labs/askdesk/internal/core/domain"
	"github.com/custodia-labs/askdesk/internal/core/ports/driven"
	"github.com/custodia-labs/askdesk/internal/core/ports/driving"
	"github.com/custodia-labs/askdesk/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages ingestion and index maintenance.
type DocumentService struct {
	docStore    driven.DocumentStore
	searchIndex driven.SearchEngine
	pool        *ants.Pool
}

// NewDocumentService creates a new document service with a batch ingestion
// pool of the given size. Call Release when done.
func NewDocumentService(
	docStore driven.DocumentStore,
	searchIndex driven.SearchEngine,
	workers int,
) (*DocumentService, error) {
	if workers <= 0 {
		workers = domain.DefaultIngestWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("creating ingest pool: %w", err)
	}
	return &DocumentService{
		docStore:    docStore,
		searchIndex: searchIndex,
		pool:        pool,
	}, nil
}

// Release stops the ingestion pool.
func (s *DocumentService) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// Ingest validates and stores a single document.
func (s *DocumentService) Ingest(ctx context.Context, title, content string) (int64, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return 0, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}

	id, err := s.docStore.Insert(ctx, title, content)
	if err != nil {
		return 0, err
	}
	logger.Info("Indexed document %d: %q", id, title)
	return id, nil
}

// IngestBatch ingests documents on the worker pool. IDs are returned in
// input order; the first error (in input order) is returned once every
// submitted document has finished. Documents that succeeded stay stored.
func (s *DocumentService) IngestBatch(ctx context.Context, docs []domain.NewDocument) ([]int64, error) {
	ids := make([]int64, len(docs))
	errs := make([]error, len(docs))

	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			ids[i], errs[i] = s.Ingest(ctx, doc.Title, doc.Content)
		})
		if err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submitting document %d: %w", i, err)
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return ids, fmt.Errorf("document %d (%q): %w", i, docs[i].Title, err)
		}
	}
	return ids, nil
}

// ListRecent returns up to limit documents, newest first. Limits above
// domain.MaxResultLimit are clamped.
func (s *DocumentService) ListRecent(ctx context.Context, limit int) ([]domain.DocumentSummary, error) {
	if limit <= 0 {
		limit = domain.DefaultListLimit
	}
	return s.docStore.ListRecent(ctx, min(limit, domain.MaxResultLimit))
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id int64) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, id)
}

// Count returns the number of stored documents.
func (s *DocumentService) Count(ctx context.Context) (int, error) {
	return s.docStore.Count(ctx)
}

// CheckIndex verifies the search index against the stored documents.
func (s *DocumentService) CheckIndex(ctx context.Context) error {
	logger.Section("Index Check")
	err := s.searchIndex.CheckIndex(ctx)
	if errors.Is(err, domain.ErrIndexInconsistent) {
		logger.Warn("%v", err)
	}
	return err
}

// RebuildIndex re-derives the search index from the stored documents.
func (s *DocumentService) RebuildIndex(ctx context.Context) error {
	logger.Section("Index Rebuild")
	if err := s.searchIndex.RebuildIndex(ctx); err != nil {
		return err
	}
	logger.Info("Search index rebuilt")
	return nil
}
