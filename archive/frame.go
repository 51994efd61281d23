package archive

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/results/compress"
	"github.com/hupe1980/results/internal/hash"
)

const (
	frameMagic      = "RSA1"
	frameHeaderSize = 9
)

func encodeFrame(c compress.Codec, envelope []byte) ([]byte, error) {
	payload, err := c.Compress(envelope)
	if err != nil {
		return nil, fmt.Errorf("archive: compress %s: %w", c.Type(), err)
	}

	frame := make([]byte, frameHeaderSize, frameHeaderSize+len(payload))
	copy(frame, frameMagic)
	frame[4] = byte(c.Type())
	binary.LittleEndian.PutUint32(frame[5:], hash.CRC32C(envelope))
	return append(frame, payload...), nil
}

func decodeFrame(frame []byte) ([]byte, error) {
	if len(frame) < frameHeaderSize || string(frame[:4]) != frameMagic {
		return nil, ErrCorruptFrame
	}

	c, err := compress.For(compress.Type(frame[4]))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptFrame, err)
	}

	envelope, err := c.Decompress(frame[frameHeaderSize:])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptFrame, c.Type(), err)
	}

	if hash.CRC32C(envelope) != binary.LittleEndian.Uint32(frame[5:]) {
		return nil, ErrChecksumMismatch
	}
	return envelope, nil
}
