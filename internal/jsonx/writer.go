package jsonx

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/hupe1980/results/internal/pool"
)

// ErrUnsupportedValue is returned for values JSON cannot represent, such as NaN.
var ErrUnsupportedValue = errors.New("unsupported JSON value")

// Writer appends compact JSON tokens to a ByteBuffer.
//
// Writer does not validate structure; callers are expected to balance
// Begin/End calls and to write a Name before every object member.
type Writer struct {
	buf   *pool.ByteBuffer
	comma bool
}

// NewWriter returns a Writer appending to buf.
func NewWriter(buf *pool.ByteBuffer) *Writer {
	return &Writer{buf: buf}
}

// Bytes returns the bytes written so far. They alias the underlying buffer.
func (w *Writer) Bytes() []byte {
	return w.buf.B
}

func (w *Writer) sep() {
	if w.comma {
		w.buf.B = append(w.buf.B, ',')
	}
}

// BeginObject writes '{'.
func (w *Writer) BeginObject() {
	w.sep()
	w.buf.B = append(w.buf.B, '{')
	w.comma = false
}

// EndObject writes '}'.
func (w *Writer) EndObject() {
	w.buf.B = append(w.buf.B, '}')
	w.comma = true
}

// BeginArray writes '['.
func (w *Writer) BeginArray() {
	w.sep()
	w.buf.B = append(w.buf.B, '[')
	w.comma = false
}

// EndArray writes ']'.
func (w *Writer) EndArray() {
	w.buf.B = append(w.buf.B, ']')
	w.comma = true
}

// Name writes an object member name followed by ':'.
func (w *Writer) Name(name string) {
	w.sep()
	w.buf.B = AppendString(w.buf.B, name)
	w.buf.B = append(w.buf.B, ':')
	w.comma = false
}

// String writes a string value.
func (w *Writer) String(s string) {
	w.sep()
	w.buf.B = AppendString(w.buf.B, s)
	w.comma = true
}

// Int64 writes an integer value.
func (w *Writer) Int64(i int64) {
	w.sep()
	w.buf.B = strconv.AppendInt(w.buf.B, i, 10)
	w.comma = true
}

// Float64 writes a floating point value. Integral values keep a ".0"
// suffix so they read back as doubles.
func (w *Writer) Float64(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: %v", ErrUnsupportedValue, f)
	}
	w.sep()
	w.buf.B = AppendFloat(w.buf.B, f)
	w.comma = true
	return nil
}

// Bool writes a boolean value.
func (w *Writer) Bool(b bool) {
	w.sep()
	w.buf.B = strconv.AppendBool(w.buf.B, b)
	w.comma = true
}

// Null writes null.
func (w *Writer) Null() {
	w.sep()
	w.buf.B = append(w.buf.B, "null"...)
	w.comma = true
}

// Raw writes pre-encoded JSON verbatim.
func (w *Writer) Raw(raw []byte) {
	w.sep()
	w.buf.B = append(w.buf.B, raw...)
	w.comma = true
}

// AppendFloat appends f in the shortest form that round-trips, switching to
// exponent notation for very small or very large magnitudes. The output
// always contains '.', 'e' or 'E'.
func AppendFloat(dst []byte, f float64) []byte {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	start := len(dst)
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(dst)
		if n-start >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
		return dst
	}
	for _, c := range dst[start:] {
		if c == '.' {
			return dst
		}
	}
	return append(dst, '.', '0')
}

const hexDigits = "0123456789abcdef"

// AppendString appends s as a quoted JSON string. Invalid UTF-8 is replaced
// with U+FFFD; U+2028 and U+2029 are escaped.
func AppendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); {
		if b := s[i]; b < utf8.RuneSelf {
			if b >= 0x20 && b != '"' && b != '\\' {
				i++
				continue
			}
			dst = append(dst, s[start:i]...)
			switch b {
			case '"', '\\':
				dst = append(dst, '\\', b)
			case '\n':
				dst = append(dst, '\\', 'n')
			case '\r':
				dst = append(dst, '\\', 'r')
			case '\t':
				dst = append(dst, '\\', 't')
			case '\b':
				dst = append(dst, '\\', 'b')
			case '\f':
				dst = append(dst, '\\', 'f')
			default:
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[b>>4], hexDigits[b&0xF])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			dst = append(dst, s[start:i]...)
			dst = append(dst, `\ufffd`...)
			i += size
			start = i
			continue
		}
		if r == '\u2028' || r == '\u2029' {
			dst = append(dst, s[start:i]...)
			dst = append(dst, '\\', 'u', '2', '0', '2', hexDigits[r&0xF])
			i += size
			start = i
			continue
		}
		i += size
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}
