package mcp

import (
	"context"

	"github.com/custodia-labs/askdesk/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer   *domain.Answer
	err      error
	question string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (*domain.Answer, error) {
	m.question = question
	return m.answer, m.err
}

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.Document
	limit   int
}

func (m *mockSearchService) Retrieve(_ context.Context, _ string, limit int) []domain.Document {
	m.limit = limit
	return m.results
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	summaries []domain.DocumentSummary
	document  *domain.Document
	err       error
}

func (m *mockDocumentService) Ingest(_ context.Context, _, _ string) (int64, error) {
	return 0, m.err
}

func (m *mockDocumentService) IngestBatch(_ context.Context, _ []domain.NewDocument) ([]int64, error) {
	return nil, m.err
}

func (m *mockDocumentService) ListRecent(_ context.Context, _ int) ([]domain.DocumentSummary, error) {
	return m.summaries, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ int64) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) CheckIndex(_ context.Context) error {
	return m.err
}

func (m *mockDocumentService) Count(_ context.Context) (int, error) {
	return len(m.summaries), m.err
}

func (m *mockDocumentService) RebuildIndex(_ context.Context) error {
	return m.err
}

func newTestPorts() *Ports {
	return &Ports{Answer: &mockAnswerService{}, Search: &mockSearchService{}}
}
