package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, Key("source"), Key("source"))
	assert.NotEqual(t, Key("source"), Key("Source"))
	// xxHash64 of the empty string with seed 0.
	assert.Equal(t, uint64(0xef46db3751d8e999), Key(""))
}

func TestCRC32C(t *testing.T) {
	data := []byte("123456789")
	// Standard CRC32C check value.
	require.Equal(t, uint32(0xe3069283), CRC32C(data))

	h := NewCRC32C()
	_, _ = h.Write(data[:4])
	_, _ = h.Write(data[4:])
	require.Equal(t, CRC32C(data), h.Sum32())
}
