// Package blobstore provides the storage abstraction for archived envelopes.
//
// Store is the interface for writing and reading whole blobs by name.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, for tests and short-lived tools
//   - LocalStore: local filesystem with atomic writes
//   - CachingStore: read-through LRU cache in front of any Store
//   - s3.Store: Amazon S3 with CRC32C-checked uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
// Implement the Store interface to support custom storage backends:
//
//	type Store interface {
//	    Put(ctx, name, data) error
//	    Get(ctx, name) ([]byte, error)
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
