// Package jsonx is the JSON token layer shared by the metadata model and the
// CloudEvents codec.
//
// Reader walks a document token by token on top of encoding/json's streaming
// decoder and can capture a nested value verbatim. Writer appends tokens to a
// pooled byte buffer, tracking separators so callers only describe structure.
// Neither type builds a document model.
package jsonx
