package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdesk/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "askdesk-test-*")
	require.NoError(t, err)

	store, err := NewStore(filepath.Join(tempDir, "data", "docs.db"))
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func insertDoc(t *testing.T, store *Store, title, content string) int64 {
	t.Helper()
	id, err := store.DocumentStore().Insert(context.Background(), title, content)
	require.NoError(t, err)
	return id
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_WALMode(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var mode string
	require.NoError(t, store.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestNewStore_ReopenIsIdempotent(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "docs.db")

	first, err := NewStore(path)
	require.NoError(t, err)
	id := insertDoc(t, first, "Refund Policy", "Refunds take 7 business days.")
	require.NoError(t, first.Close())

	second, err := NewStore(path)
	require.NoError(t, err)
	defer second.Close()

	doc, err := second.DocumentStore().GetDocument(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Refund Policy", doc.Title)

	var versions int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 1, versions)
}

func TestDocumentStore_InsertAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id := insertDoc(t, store, "Onboarding Flow", "Create a profile and send a welcome email.")
	assert.Positive(t, id)

	doc, err := store.DocumentStore().GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, "Onboarding Flow", doc.Title)
	assert.Equal(t, "Create a profile and send a welcome email.", doc.Content)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestDocumentStore_IDsIncrease(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	a := insertDoc(t, store, "A", "alpha")
	b := insertDoc(t, store, "B", "beta")
	c := insertDoc(t, store, "C", "gamma")

	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestDocumentStore_GetNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.DocumentStore().GetDocument(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListRecent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	insertDoc(t, store, "First", "one")
	insertDoc(t, store, "Second", "two")
	third := insertDoc(t, store, "Third", "three")

	items, err := store.DocumentStore().ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.DocumentSummary{ID: third, Title: "Third"}, items[0])

	all, err := store.DocumentStore().ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Third", all[0].Title)
	assert.Equal(t, "First", all[2].Title)
}

func TestDocumentStore_ListRecentEmpty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	items, err := store.DocumentStore().ListRecent(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDocumentStore_Count(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	n, err := store.DocumentStore().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	insertDoc(t, store, "A", "alpha")
	insertDoc(t, store, "B", "beta")

	n, err = store.DocumentStore().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestInsert_IndexConsistentAfterEachIngest(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for _, title := range []string{"Refund Policy", "API Rate Limits", "Onboarding Flow"} {
		insertDoc(t, store, title, title+" details")
		require.NoError(t, store.SearchEngine().CheckIndex(ctx))
	}
}

func TestInsert_FailureBetweenWritesLeavesNoTrace(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	store.beforeIndex = func() error { return errors.New("injected") }

	_, err := store.DocumentStore().Insert(ctx, "Refund Policy", "Refunds require an order id.")
	require.Error(t, err)

	n, err := store.DocumentStore().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	hits, err := store.SearchEngine().Search(ctx, "refund", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.NoError(t, store.SearchEngine().CheckIndex(ctx))

	store.beforeIndex = nil
	id := insertDoc(t, store, "Refund Policy", "Refunds require an order id.")

	hits, err = store.SearchEngine().Search(ctx, "refund", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, id, hits[0].DocumentID)
}

func TestInsert_CanceledContext(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.DocumentStore().Insert(ctx, "T", "c")
	require.Error(t, err)

	n, err := store.DocumentStore().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInsert_Concurrent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.DocumentStore().Insert(ctx, "Concurrent", "parallel ingestion")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	n, err := store.DocumentStore().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, writers, n)
	assert.NoError(t, store.SearchEngine().CheckIndex(ctx))
}

func TestSearch_RankOrdering(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	weak := insertDoc(t, store, "Billing Overview",
		"Invoices are sent monthly. Payment terms are thirty days. A refund may apply in rare cases.")
	strong := insertDoc(t, store, "Refund Policy",
		"Refund requests are processed within 7 business days. Refund requires order id.")
	insertDoc(t, store, "API Rate Limits", "Clients are allowed 1000 requests per day.")

	hits, err := store.SearchEngine().Search(ctx, "refund", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, strong, hits[0].DocumentID)
	assert.Equal(t, weak, hits[1].DocumentID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestSearch_TiesBrokenByID(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	first := insertDoc(t, store, "Same", "identical body text")
	second := insertDoc(t, store, "Same", "identical body text")

	hits, err := store.SearchEngine().Search(ctx, "identical", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, first, hits[0].DocumentID)
	assert.Equal(t, second, hits[1].DocumentID)
}

func TestSearch_Reproducible(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	insertDoc(t, store, "Refund Policy", "Refunds are processed within 7 business days.")
	insertDoc(t, store, "Returns", "Returned items are refunded after inspection.")
	insertDoc(t, store, "Rate Limits", "429 returned when limit exceeded.")

	first, err := store.SearchEngine().Search(ctx, "refunds OR returned", 10)
	require.NoError(t, err)
	second, err := store.SearchEngine().Search(ctx, "refunds OR returned", 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSearch_Limit(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		insertDoc(t, store, "Doc", "shared term")
	}

	hits, err := store.SearchEngine().Search(ctx, "shared", 3)
	require.NoError(t, err)
	assert.Len(t, hits, 3)

	hits, err = store.SearchEngine().Search(ctx, "shared", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_MatchesTitle(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id := insertDoc(t, store, "Onboarding Flow", "Create a profile.")

	hits, err := store.SearchEngine().Search(ctx, "onboarding", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, id, hits[0].DocumentID)
}

func TestSearch_EmptyQuery(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	insertDoc(t, store, "Doc", "content")

	hits, err := store.SearchEngine().Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_MalformedQueryReturnsError(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	insertDoc(t, store, "Doc", "content")

	_, err := store.SearchEngine().Search(context.Background(), `"unterminated`, 10)
	assert.Error(t, err)
}

func TestCheckIndex_DetectsOrphanAndRebuildRepairs(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id := insertDoc(t, store, "Refund Policy", "Refunds take 7 days.")
	insertDoc(t, store, "Rate Limits", "1000 requests per day.")

	// Remove a document behind the index's back.
	_, err := store.db.Exec("DELETE FROM documents WHERE id = ?", id)
	require.NoError(t, err)

	err = store.SearchEngine().CheckIndex(ctx)
	assert.ErrorIs(t, err, domain.ErrIndexInconsistent)

	require.NoError(t, store.SearchEngine().RebuildIndex(ctx))
	assert.NoError(t, store.SearchEngine().CheckIndex(ctx))

	hits, err := store.SearchEngine().Search(ctx, "refunds", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRebuildIndex_EmptyStore(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SearchEngine().RebuildIndex(ctx))
	assert.NoError(t, store.SearchEngine().CheckIndex(ctx))
}

func TestStore_HugeLimitsDoNotPreallocate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id := insertDoc(t, store, "Refund Policy", "Refunds are processed within 5 business days.")

	for _, limit := range []int{4_000_000_000, 1_000_000_000_000_000_000} {
		items, err := store.DocumentStore().ListRecent(ctx, limit)
		require.NoError(t, err)
		assert.Equal(t, []domain.DocumentSummary{{ID: id, Title: "Refund Policy"}}, items)

		hits, err := store.SearchEngine().Search(ctx, "refunds", limit)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, id, hits[0].DocumentID)
	}
}
