package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore runs the behavior every Store must share.
func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "events/b.bin", []byte("second")))
	require.NoError(t, store.Put(ctx, "events/a.bin", []byte("first")))
	require.NoError(t, store.Put(ctx, "other.bin", []byte("x")))

	got, err := store.Get(ctx, "events/a.bin")
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	// Returned slices are owned by the caller.
	got[0] = 'X'
	again, err := store.Get(ctx, "events/a.bin")
	require.NoError(t, err)
	assert.Equal(t, "first", string(again))

	require.NoError(t, store.Put(ctx, "events/a.bin", []byte("replaced")))
	got, err = store.Get(ctx, "events/a.bin")
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(got))

	names, err := store.List(ctx, "events/")
	require.NoError(t, err)
	assert.Equal(t, []string{"events/a.bin", "events/b.bin"}, names)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, store.Delete(ctx, "events/a.bin"))
	require.NoError(t, store.Delete(ctx, "events/a.bin"))
	_, err = store.Get(ctx, "events/a.bin")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	testStore(t, store)
	assert.Equal(t, 2, store.Len())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, store.Put(ctx, "x", nil), context.Canceled)
}

func TestRelativeName(t *testing.T) {
	tests := []struct {
		key, root, want string
	}{
		{"prefix/file", "prefix", "file"},
		{"prefix/file", "prefix/", "file"},
		{"prefix/dir/file", "prefix", "dir/file"},
		{"file", "", "file"},
		{"elsewhere/file", "prefix", "elsewhere/file"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeName(tt.key, tt.root))
		})
	}
}
