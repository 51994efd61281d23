// Package fs provides the filesystem abstraction behind blobstore.LocalStore,
// for testability and fault injection.
//
// # Implementations
//
//   - [LocalFS]: Production implementation using the os package
//   - [FaultyFS]: Test utility that injects write, sync, close, and rename errors
//
// # Usage
//
// Production code uses fs.Default. Tests inject a [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp-", fs.Fault{FailOnSync: true})
//	store := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
//
// Operations take no context.Context; local syscalls are not interruptible.
package fs
