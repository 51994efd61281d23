package archive

import (
	"errors"
	"testing"

	"github.com/hupe1980/results/compress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleEnvelope = []byte(`{"specversion":"1.0","type":"app.success","source":"urn:test","id":"evt-1","time":"2024-01-02T03:04:05Z","lroutcome":"success","datacontenttype":"application/json","data":{"total":42,"items":["a","b","c","a","b","c"]}}`)

func allCodecs() []compress.Codec {
	return []compress.Codec{
		compress.NoopCodec{},
		compress.LZ4Codec{},
		compress.ZstdCodec{},
		compress.S2Codec{},
		compress.GzipCodec{},
	}
}

func TestFrameRoundTrip(t *testing.T) {
	for _, c := range allCodecs() {
		t.Run(c.Type().String(), func(t *testing.T) {
			frame, err := encodeFrame(c, sampleEnvelope)
			require.NoError(t, err)
			assert.Equal(t, frameMagic, string(frame[:4]))
			assert.Equal(t, byte(c.Type()), frame[4])

			got, err := decodeFrame(frame)
			require.NoError(t, err)
			assert.Equal(t, sampleEnvelope, got)
		})
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	valid, err := encodeFrame(compress.NoopCodec{}, sampleEnvelope)
	require.NoError(t, err)

	mutate := func(fn func(b []byte)) []byte {
		b := append([]byte(nil), valid...)
		fn(b)
		return b
	}

	tests := []struct {
		name    string
		frame   []byte
		wantErr error
	}{
		{"Empty", nil, ErrCorruptFrame},
		{"Truncated", valid[:frameHeaderSize-1], ErrCorruptFrame},
		{"BadMagic", mutate(func(b []byte) { b[0] = 'X' }), ErrCorruptFrame},
		{"UnknownCoding", mutate(func(b []byte) { b[4] = 0xEE }), compress.ErrUnknownType},
		{"FlippedPayload", mutate(func(b []byte) { b[frameHeaderSize] ^= 0xFF }), ErrChecksumMismatch},
		{"FlippedChecksum", mutate(func(b []byte) { b[5] ^= 0x01 }), ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeFrame(tt.frame)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("CorruptCompressedPayload", func(t *testing.T) {
		frame, err := encodeFrame(compress.ZstdCodec{}, sampleEnvelope)
		require.NoError(t, err)
		frame = frame[:len(frame)-4]

		_, err = decodeFrame(frame)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCorruptFrame) || errors.Is(err, ErrChecksumMismatch), err)
	})
}

func TestFrameEmptyEnvelope(t *testing.T) {
	frame, err := encodeFrame(compress.S2Codec{}, nil)
	require.NoError(t, err)

	got, err := decodeFrame(frame)
	require.NoError(t, err)
	assert.Empty(t, got)
}
