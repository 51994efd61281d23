package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEnvelope() []byte {
	return bytes.Repeat([]byte(`{"specversion":"1.0","type":"app.success","source":"urn:test","lroutcome":"success","data":42}`), 32)
}

func TestCodecs_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"envelope":       sampleEnvelope(),
		"incompressible": {0x01, 0x9f, 0x33, 0xc4, 0x7e},
		"single":         {'x'},
	}
	for _, typ := range []Type{None, LZ4, Zstd, S2, Gzip} {
		c, err := For(typ)
		require.NoError(t, err)
		assert.Equal(t, typ, c.Type())

		for name, in := range inputs {
			t.Run(typ.String()+"/"+name, func(t *testing.T) {
				packed, err := c.Compress(in)
				require.NoError(t, err)

				out, err := c.Decompress(packed)
				require.NoError(t, err)
				assert.Equal(t, in, out)
			})
		}

		t.Run(typ.String()+"/empty", func(t *testing.T) {
			packed, err := c.Compress(nil)
			require.NoError(t, err)
			assert.Empty(t, packed)
			out, err := c.Decompress(packed)
			require.NoError(t, err)
			assert.Empty(t, out)
		})
	}
}

func TestCodecs_Shrink(t *testing.T) {
	in := sampleEnvelope()
	for _, typ := range []Type{LZ4, Zstd, S2, Gzip} {
		c, _ := For(typ)
		packed, err := c.Compress(in)
		require.NoError(t, err)
		assert.Less(t, len(packed), len(in), typ.String())
	}
}

func TestCodecs_CorruptInput(t *testing.T) {
	garbage := []byte{0xff, 0xff, 0xff, 0x7f, 0x00, 0x01}
	for _, typ := range []Type{LZ4, Zstd, S2, Gzip} {
		c, _ := For(typ)
		_, err := c.Decompress(garbage)
		assert.Error(t, err, typ.String())
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"", None, false},
		{"none", None, false},
		{"LZ4", LZ4, false},
		{" zstd ", Zstd, false},
		{"s2", S2, false},
		{"gzip", Gzip, false},
		{"brotli", None, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := For(Type(99))
	require.ErrorIs(t, err, ErrUnknownType)
	assert.Equal(t, "Type(99)", Type(99).String())
}

func BenchmarkCompress(b *testing.B) {
	in := sampleEnvelope()
	for _, typ := range []Type{LZ4, Zstd, S2, Gzip} {
		c, _ := For(typ)
		b.Run(typ.String(), func(b *testing.B) {
			b.SetBytes(int64(len(in)))
			for b.Loop() {
				_, _ = c.Compress(in)
			}
		})
	}
}
