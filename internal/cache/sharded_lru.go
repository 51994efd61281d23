package cache

import (
	"github.com/hupe1980/results/internal/hash"
	"github.com/hupe1980/results/resource"
)

const numShards = 64

// ShardedLRU is a sharded LRU cache for high-concurrency workloads.
type ShardedLRU struct {
	shards [numShards]*LRU
}

// NewShardedLRU creates a new sharded LRU cache.
// The capacity is divided evenly across all shards.
func NewShardedLRU(capacity int64, rc *resource.Controller) *ShardedLRU {
	shardCapacity := max(capacity/numShards, 1)

	s := &ShardedLRU{}
	for i := range numShards {
		s.shards[i] = NewLRU(shardCapacity, rc)
	}
	return s
}

func (s *ShardedLRU) shard(key string) *LRU {
	return s.shards[hash.Key(key)%numShards]
}

// Get returns a cached blob.
func (s *ShardedLRU) Get(key string) ([]byte, bool) {
	return s.shard(key).Get(key)
}

// Set caches a blob.
func (s *ShardedLRU) Set(key string, b []byte) {
	s.shard(key).Set(key, b)
}

// Invalidate removes the entry for key.
func (s *ShardedLRU) Invalidate(key string) {
	s.shard(key).Invalidate(key)
}

// Stats returns aggregated hit/miss statistics.
func (s *ShardedLRU) Stats() (hits, misses int64) {
	for _, sh := range s.shards {
		h, m := sh.Stats()
		hits += h
		misses += m
	}
	return hits, misses
}

// Size returns the total size across all shards.
func (s *ShardedLRU) Size() int64 {
	var total int64
	for _, sh := range s.shards {
		total += sh.Size()
	}
	return total
}

// Len returns the number of cached entries across all shards.
func (s *ShardedLRU) Len() int {
	var n int
	for _, sh := range s.shards {
		n += sh.Len()
	}
	return n
}
