// Package hash provides the hashing primitives used across the module.
//
// # Key hashing
//
// Large metadata objects build a lazy open-addressing index over their keys.
// Keys are hashed with xxHash64:
//
//	h := hash.Key("correlationId")
//
// # CRC32-Castagnoli (CRC32C)
//
// Archived envelopes carry a CRC32C checksum of the uncompressed envelope
// bytes so corruption is detected on read regardless of the content coding:
//
//	checksum := hash.CRC32C(data)
//
// Go's crc32 package uses hardware instructions (SSE4.2, ARM CRC) when
// available.
package hash
