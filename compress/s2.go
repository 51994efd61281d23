package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Codec implements S2 block compression.
type S2Codec struct{}

// Type implements Codec.
func (S2Codec) Type() Type { return S2 }

// Compress implements Codec.
func (S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return s2.Encode(nil, data), nil
}

// Decompress implements Codec.
func (S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}
	return out, nil
}
