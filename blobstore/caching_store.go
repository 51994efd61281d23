package blobstore

import (
	"context"

	"github.com/hupe1980/results/internal/cache"
)

// CachingStore wraps a Store and caches blob contents on read.
// Writes and deletes invalidate the cached entry.
type CachingStore struct {
	inner Store
	cache cache.Cache
}

// NewCachingStore creates a new CachingStore.
func NewCachingStore(inner Store, c cache.Cache) *CachingStore {
	return &CachingStore{inner: inner, cache: c}
}

// Put implements Store.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Get implements Store. Cached content is copied so callers may modify it.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	if b, ok := s.cache.Get(name); ok {
		return append([]byte(nil), b...), nil
	}
	data, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	s.cache.Set(name, append([]byte(nil), data...))
	return data, nil
}

// Delete implements Store.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List implements Store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns the cache hit and miss counts.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}
