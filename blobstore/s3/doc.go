// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil {
//	    return err
//	}
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "results/")
//
//	a := archive.New(store, archive.WithCompression(compress.For(compress.Zstd)))
//
// # Features
//
//   - CRC32C integrity checksums on every upload
//   - Multipart uploads for large envelopes
//   - Create-only writes via If-None-Match
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
