package codec

import gojson "github.com/goccy/go-json"

// GoJSON encodes envelope success values with github.com/goccy/go-json.
//
// It is the Default codec: the envelope writer embeds Marshal output as the
// data member verbatim, and the reader hands the raw data member (or the
// wrapped "value" member) to Unmarshal. Output is compatible with encoding/json
// for plain structs, maps and slices.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name returns "go-json", the name ByName resolves.
func (GoJSON) Name() string { return "go-json" }

// Append encodes v and appends it to dst. On error dst is returned unchanged.
func (GoJSON) Append(dst []byte, v any) ([]byte, error) {
	b, err := gojson.Marshal(v)
	if err != nil {
		return dst, err
	}
	return append(dst, b...), nil
}
