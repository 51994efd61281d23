package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

var lz4CompressorPool = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

// maxLZ4Size bounds the decoded size read from a block header.
const maxLZ4Size = 128 << 20

// LZ4Codec implements LZ4 block compression.
//
// Block format: [UncompressedSize uint32][Data...]. When Data is exactly
// UncompressedSize bytes long it holds the raw input.
type LZ4Codec struct{}

// Type implements Codec.
func (LZ4Codec) Type() Type { return LZ4 }

// Compress implements Codec.
func (LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, 4+lz4.CompressBlockBound(len(data)))
	binary.LittleEndian.PutUint32(dst, uint32(len(data)))

	c, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(c)

	n, err := c.CompressBlock(data, dst[4:])
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	if n == 0 || n >= len(data) {
		// Incompressible input is stored raw, so a payload as long as the
		// header size is never compressed.
		return append(dst[:4], data...), nil
	}
	return dst[:4+n], nil
}

// Decompress implements Codec.
func (LZ4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < 4 {
		return nil, errors.New("lz4 block too short")
	}
	size := int(binary.LittleEndian.Uint32(data))
	if size > maxLZ4Size {
		return nil, fmt.Errorf("lz4 block size %d exceeds limit", size)
	}
	payload := data[4:]
	if len(payload) == size {
		return clone(payload), nil
	}
	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(payload, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}
	if n != size {
		return nil, fmt.Errorf("lz4 decompressed %d bytes, header says %d", n, size)
	}
	return dst, nil
}
