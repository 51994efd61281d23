// Package codec centralizes encoding of success values carried in envelopes.
//
// Readers and writers must agree on the codec: the envelope does not record
// which one produced its data payload.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use and must produce a single
// compact JSON value, since the output is embedded verbatim in envelopes.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// This is used by configuration layers that select the codec from a string.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json", "":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
