package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blobfs "github.com/hupe1980/results/internal/fs"
)

func TestLocalStore(t *testing.T) {
	testStore(t, NewLocalStore(t.TempDir()))
}

func TestLocalStore_Layout(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "2024/01/evt-1.rsa", []byte("data")))

	// Names map to nested files and no temporary files remain.
	_, err := os.Stat(filepath.Join(tmpDir, "2024", "01", "evt-1.rsa"))
	require.NoError(t, err)
	entries, err := os.ReadDir(filepath.Join(tmpDir, "2024", "01"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStore_InvalidNames(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", "../escape", "/abs"} {
		t.Run(name, func(t *testing.T) {
			require.Error(t, store.Put(ctx, name, []byte("x")))
		})
	}
}

func TestLocalStore_MissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "absent"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_FaultInjection(t *testing.T) {
	tests := []struct {
		name  string
		fault blobfs.Fault
	}{
		{"WriteFails", blobfs.Fault{FailAfterBytes: 2}},
		{"SyncFails", blobfs.Fault{FailAfterBytes: -1, FailOnSync: true}},
		{"CloseFails", blobfs.Fault{FailAfterBytes: -1, FailOnClose: true}},
		{"RenameFails", blobfs.Fault{FailAfterBytes: -1, FailOnRename: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			ffs := blobfs.NewFaultyFS(nil)
			store := NewLocalStore(tmpDir, WithFileSystem(ffs))
			ctx := context.Background()

			require.NoError(t, store.Put(ctx, "evt-1.rsa", []byte("old")))

			ffs.AddRule(tmpPrefix, tt.fault)
			err := store.Put(ctx, "evt-1.rsa", []byte("new content"))
			require.ErrorIs(t, err, blobfs.ErrInjected)

			// The previous blob survives and the temporary file is gone.
			got, err := store.Get(ctx, "evt-1.rsa")
			require.NoError(t, err)
			assert.Equal(t, []byte("old"), got)

			entries, err := os.ReadDir(tmpDir)
			require.NoError(t, err)
			assert.Len(t, entries, 1)

			ffs.ClearRules()
			require.NoError(t, store.Put(ctx, "evt-1.rsa", []byte("new content")))
		})
	}
}

func TestLocalStore_NilFileSystem(t *testing.T) {
	store := NewLocalStore(t.TempDir(), WithFileSystem(nil))
	require.NoError(t, store.Put(context.Background(), "a", []byte("x")))
}
