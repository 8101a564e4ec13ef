package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"versepulse/internal/domain"
)

func openTestStore(t *testing.T) *SeenStore {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "data", "versepulse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSeenStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seen, err := store.Contains(ctx, "123456")
	require.NoError(t, err)
	require.False(t, seen, "new thread must not be seen")

	require.NoError(t, store.MarkSeen(ctx, domain.SeenRecord{
		PostID: "123456",
		Title:  "Alpha 4.5.0 Patch Notes",
		URL:    "https://forum/thread/123456",
	}))

	seen, err = store.Contains(ctx, "123456")
	require.NoError(t, err)
	require.True(t, seen)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestSeenStoreInsertIfAbsent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := domain.SeenRecord{PostID: "1", Title: "Original Title", URL: "https://forum/thread/1"}
	require.NoError(t, store.MarkSeen(ctx, first))

	// A second insert for the same id is a no-op, never an update.
	require.NoError(t, store.MarkSeen(ctx, domain.SeenRecord{PostID: "1", Title: "Rewritten Title", URL: "https://elsewhere"}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	var title string
	require.NoError(t, store.db.QueryRowContext(ctx, "SELECT title FROM seen_posts WHERE post_id = ?", "1").Scan(&title))
	require.Equal(t, "Original Title", title)
}

func TestSeenStoreCountEmpty(t *testing.T) {
	store := openTestStore(t)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)
}
