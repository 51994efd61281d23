package archive

import (
	"context"
	"sync"

	"github.com/hupe1980/results/blobstore"
)

// IndexEntry records one committed put.
type IndexEntry struct {
	ID      string
	Version uint64
	Key     string
	Size    int
}

// Index keeps a versioned log of archived envelopes, so concurrent writers
// can detect that an id was re-archived.
type Index interface {
	// Commit records e as the next version of e.ID and returns that version.
	// e.Version is ignored. Returns ErrConcurrentModification if another
	// writer committed the same version first.
	Commit(ctx context.Context, e IndexEntry) (uint64, error)

	// Latest returns the highest committed version of id, or
	// blobstore.ErrNotFound.
	Latest(ctx context.Context, id string) (IndexEntry, error)
}

// MemoryIndex is an in-process Index.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[string]IndexEntry
}

var _ Index = (*MemoryIndex)(nil)

// NewMemoryIndex returns an empty MemoryIndex.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{entries: make(map[string]IndexEntry)}
}

func (m *MemoryIndex) Commit(ctx context.Context, e IndexEntry) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e.Version = m.entries[e.ID].Version + 1
	m.entries[e.ID] = e
	return e.Version, nil
}

func (m *MemoryIndex) Latest(ctx context.Context, id string) (IndexEntry, error) {
	if err := ctx.Err(); err != nil {
		return IndexEntry{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return IndexEntry{}, blobstore.ErrNotFound
	}
	return e, nil
}
