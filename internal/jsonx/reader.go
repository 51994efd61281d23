package jsonx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrSyntax wraps every malformed-input error returned by Reader.
var ErrSyntax = errors.New("invalid JSON")

// Reader is a forward-only JSON token reader.
type Reader struct {
	dec *json.Decoder
}

// NewReader returns a Reader over data. Numbers are surfaced as json.Number.
func NewReader(data []byte) *Reader {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return &Reader{dec: dec}
}

func syntaxError(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: %w", ErrSyntax, err)
}

// Token returns the next token: json.Delim, string, json.Number, bool or nil.
func (r *Reader) Token() (json.Token, error) {
	tok, err := r.dec.Token()
	if err != nil {
		return nil, syntaxError(err)
	}
	return tok, nil
}

// More reports whether the current array or object has another element.
func (r *Reader) More() bool {
	return r.dec.More()
}

// Expect consumes the next token and checks that it is the delimiter d.
func (r *Reader) Expect(d json.Delim) error {
	tok, err := r.Token()
	if err != nil {
		return err
	}
	if got, ok := tok.(json.Delim); !ok || got != d {
		return fmt.Errorf("%w: expected %q, got %s", ErrSyntax, d, Describe(tok))
	}
	return nil
}

// Name consumes the next object key.
func (r *Reader) Name() (string, error) {
	tok, err := r.Token()
	if err != nil {
		return "", err
	}
	name, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected property name, got %s", ErrSyntax, Describe(tok))
	}
	return name, nil
}

// Raw consumes the next value and returns its bytes verbatim.
func (r *Reader) Raw() (json.RawMessage, error) {
	var raw json.RawMessage
	if err := r.dec.Decode(&raw); err != nil {
		return nil, syntaxError(err)
	}
	return raw, nil
}

// Skip consumes the next value without interpreting it.
func (r *Reader) Skip() error {
	_, err := r.Raw()
	return err
}

// SkipRest consumes the remaining elements of an array or object whose
// opening delimiter was already read, then the closing delimiter.
func (r *Reader) SkipRest() error {
	depth := 1
	for depth > 0 {
		tok, err := r.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// EOF checks that no further tokens follow the top-level value.
func (r *Reader) EOF() error {
	tok, err := r.dec.Token()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return syntaxError(err)
	}
	return fmt.Errorf("%w: unexpected trailing %s", ErrSyntax, Describe(tok))
}

// Offset returns the input offset of the reader.
func (r *Reader) Offset() int64 {
	return r.dec.InputOffset()
}

// Number converts a JSON number into an int64 when it is written as an
// integer and fits, otherwise into a float64.
func Number(n json.Number) (i int64, f float64, isInt bool, err error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, 0, true, nil
		}
	}
	f, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: number %s out of range", ErrSyntax, s)
	}
	return 0, f, false, nil
}

// Describe names a token for error messages.
func Describe(tok json.Token) string {
	switch t := tok.(type) {
	case nil:
		return "null"
	case json.Delim:
		switch t {
		case '{':
			return "object"
		case '[':
			return "array"
		default:
			return strconv.Quote(t.String())
		}
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", tok)
	}
}
