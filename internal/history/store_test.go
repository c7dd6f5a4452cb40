package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, "/src/a.pdf", "/dst/Document/a.pdf", "Document", "dated invoice"))
	require.NoError(t, store.Record(ctx, "/src/b.png", "/dst/Image/b.png", "Image", ""))

	moves, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, moves, 2)

	// newest first
	assert.Equal(t, "/src/b.png", moves[0].Source)
	assert.Equal(t, "/dst/Image/b.png", moves[0].Target)
	assert.Equal(t, "Image", moves[0].Category)
	assert.Equal(t, "/src/a.pdf", moves[1].Source)
	assert.Equal(t, "dated invoice", moves[1].Reason)
	assert.Equal(t, store.RunID(), moves[0].RunID)
}

func TestListLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, "/src/x", "/dst/x", "Other", ""))
	}
	moves, err := store.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, moves, 3)
}

func TestListRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Record(context.Background(), "/src/a", "/dst/a", "Other", ""))
	firstRun := first.RunID()
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.Record(context.Background(), "/src/b", "/dst/b", "Other", ""))

	assert.NotEqual(t, firstRun, second.RunID())

	moves, err := second.ListRun(context.Background(), firstRun)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, "/src/a", moves[0].Source)

	moves, err = second.ListRun(context.Background(), second.RunID())
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, "/src/b", moves[0].Source)
}
