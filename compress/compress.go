package compress

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownType is returned for compression types this package does not know.
var ErrUnknownType = errors.New("compress: unknown compression type")

// Type identifies a compression algorithm. Values are persisted and must
// stay stable.
type Type uint8

const (
	// None stores data as is.
	None Type = 0
	// LZ4 uses LZ4 block compression (fast, good for hot data).
	LZ4 Type = 1
	// Zstd uses Zstandard (better ratio, good for cold data).
	Zstd Type = 2
	// S2 uses the Snappy-compatible S2 format.
	S2 Type = 3
	// Gzip uses gzip streams, readable by standard tooling.
	Gzip Type = 4
)

var typeNames = [...]string{
	None: "none",
	LZ4:  "lz4",
	Zstd: "zstd",
	S2:   "s2",
	Gzip: "gzip",
}

// String returns the configuration name of t.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// ParseType resolves a configuration name, ignoring case. The empty string
// is None.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return None, nil
	}
	for t, n := range typeNames {
		if n == name {
			return Type(t), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Codec compresses and decompresses whole blocks.
// Implementations are safe for concurrent use.
type Codec interface {
	// Type reports the algorithm implemented by the codec.
	Type() Type
	// Compress returns a newly allocated compressed copy of data.
	Compress(data []byte) ([]byte, error)
	// Decompress reverses Compress.
	Decompress(data []byte) ([]byte, error)
}

// For returns the codec for t.
func For(t Type) (Codec, error) {
	switch t {
	case None:
		return NoopCodec{}, nil
	case LZ4:
		return LZ4Codec{}, nil
	case Zstd:
		return ZstdCodec{}, nil
	case S2:
		return S2Codec{}, nil
	case Gzip:
		return GzipCodec{}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownType, uint8(t))
}

// NoopCodec passes data through unchanged.
type NoopCodec struct{}

// Type implements Codec.
func (NoopCodec) Type() Type { return None }

// Compress implements Codec.
func (NoopCodec) Compress(data []byte) ([]byte, error) { return clone(data), nil }

// Decompress implements Codec.
func (NoopCodec) Decompress(data []byte) ([]byte, error) { return clone(data), nil }

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte(nil), b...)
}
