// Package cache provides LRU caching for archived blob bytes.
//
// The ShardedLRU spreads entries over 64 shards selected by the xxHash of the
// key, each guarded by its own mutex. Capacity is accounted in bytes and,
// when a resource.Controller is supplied, charged against its memory limit.
package cache
