package codec

import (
	"testing"

	"github.com/hupe1980/results/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type order struct {
	ID    string   `json:"id"`
	Total float64  `json:"total"`
	Items []string `json:"items"`
}

func TestCodecs(t *testing.T) {
	codecs := []Codec{JSON{}, GoJSON{}}

	for _, c := range codecs {
		t.Run(c.Name(), func(t *testing.T) {
			in := order{ID: "o-1", Total: 12.5, Items: []string{"a", "b"}}

			data, err := c.Marshal(in)
			require.NoError(t, err)
			assert.JSONEq(t, `{"id":"o-1","total":12.5,"items":["a","b"]}`, string(data))

			var out order
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)
		})

		t.Run(c.Name()+"/Metadata", func(t *testing.T) {
			md := metadata.MustObject(
				metadata.Pair("b", metadata.Int64(1)),
				metadata.Pair("a", metadata.String("x")),
			)
			data, err := c.Marshal(md)
			require.NoError(t, err)
			assert.Equal(t, `{"a":"x","b":1}`, string(data))

			var out metadata.Object
			require.NoError(t, c.Unmarshal(data, &out))
			assert.True(t, out.Equal(md))
		})
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"json", "json", true},
		{"go-json", "go-json", true},
		{"", "go-json", true},
		{"msgpack", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := ByName(tt.name)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, c.Name())
			}
		})
	}
}

func TestGoJSONAppend(t *testing.T) {
	dst := []byte(`{"v":`)
	dst, err := GoJSON{}.Append(dst, 42)
	require.NoError(t, err)
	assert.Equal(t, `{"v":42`, string(dst))

	out, err := GoJSON{}.Append(dst, make(chan int))
	require.Error(t, err)
	assert.Equal(t, `{"v":42`, string(out))
}

func TestMustMarshal(t *testing.T) {
	assert.Equal(t, "true", string(MustMarshal(nil, true)))
	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
}
