package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdesk/internal/core/domain"
)

func TestDocumentStore_InsertAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	id, err := store.Insert(ctx, "Refund Policy", "Refunds take 7 business days.")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	doc, err := store.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Refund Policy", doc.Title)
	assert.False(t, doc.CreatedAt.IsZero())

	_, err = store.GetDocument(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_InsertCanceled(t *testing.T) {
	store := NewDocumentStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Insert(ctx, "T", "c")
	require.Error(t, err)

	n, _ := store.Count(context.Background())
	assert.Zero(t, n)
}

func TestDocumentStore_ListRecent(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	for _, title := range []string{"First", "Second", "Third"} {
		_, err := store.Insert(ctx, title, "body")
		require.NoError(t, err)
	}

	items, err := store.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.DocumentSummary{ID: 3, Title: "Third"}, items[0])

	items, err = store.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, "First", items[2].Title)
}

func TestDocumentStore_SearchRanking(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	weak, _ := store.Insert(ctx, "Billing", "a refund may apply")
	strong, _ := store.Insert(ctx, "Refund Policy", "refund requests take 7 days")
	_, _ = store.Insert(ctx, "Rate Limits", "1000 requests per day")

	hits, err := store.Search(ctx, "refund", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, strong, hits[0].DocumentID)
	assert.Equal(t, weak, hits[1].DocumentID)
}

func TestDocumentStore_SearchOrQuery(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	refund, _ := store.Insert(ctx, "Refund Policy", "processed within 7 business days")
	_, _ = store.Insert(ctx, "Rate Limits", "429 returned when limit exceeded")

	hits, err := store.Search(ctx, "how OR long OR refund OR take", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, refund, hits[0].DocumentID)
}

func TestDocumentStore_SearchTiesAndLimit(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _ = store.Insert(ctx, "Same", "identical")
	}

	hits, err := store.Search(ctx, "identical", 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, int64(1), hits[0].DocumentID)
	assert.Equal(t, int64(2), hits[1].DocumentID)
	assert.Equal(t, int64(3), hits[2].DocumentID)
}

func TestDocumentStore_CheckAndRebuild(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	_, _ = store.Insert(ctx, "Refund Policy", "refunds")
	require.NoError(t, store.CheckIndex(ctx))

	// Drop the postings and confirm the check notices.
	store.mu.Lock()
	store.postings = make(map[string]map[int64]int)
	store.mu.Unlock()
	assert.ErrorIs(t, store.CheckIndex(ctx), domain.ErrIndexInconsistent)

	require.NoError(t, store.RebuildIndex(ctx))
	assert.NoError(t, store.CheckIndex(ctx))

	hits, err := store.Search(ctx, "refunds", 5)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestDocumentStore_ConcurrentInsert(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Insert(ctx, "Doc", "concurrent body")
			_, _ = store.Search(ctx, "concurrent", 3)
		}()
	}
	wg.Wait()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, n)
	assert.NoError(t, store.CheckIndex(ctx))
}
