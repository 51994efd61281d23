// Package archive persists serialized CloudEvents result envelopes in a
// blobstore.Store.
//
// Every envelope is stored as a frame:
//
//	+--------+--------+-----------------+----------------------+
//	| "RSA1" | coding | CRC32C (LE u32) | compressed envelope  |
//	+--------+--------+-----------------+----------------------+
//
// The checksum covers the uncompressed envelope, so corruption is detected
// regardless of the coding. Frames written with one coding are readable by
// an archive configured with another.
//
// # Usage
//
//	a := archive.New(store,
//	    archive.WithCompression(compress.ZstdCodec{}),
//	    archive.WithController(resource.NewController(resource.Config{MaxWorkers: 8})),
//	)
//	id, err := archive.StoreValue(ctx, a, writer, results.Ok(order), attrs)
//	r, err := archive.LoadValue[Order](ctx, a, reader, id)
package archive
