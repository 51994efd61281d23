// Package compress provides block compression codecs for archived envelopes.
//
// Each codec is identified by a Type that is stored next to the compressed
// bytes, so a reader can decode a blob without out-of-band configuration.
package compress
