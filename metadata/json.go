package metadata

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/results/internal/jsonx"
	"github.com/hupe1980/results/internal/pool"
)

// ReadJSONValue reads the next JSON value from r. Every produced value,
// nested ones included, carries annotation a.
func ReadJSONValue(r *jsonx.Reader, a Annotation) (Value, error) {
	tok, err := r.Token()
	if err != nil {
		return Value{}, err
	}
	return readJSONToken(r, tok, a)
}

// ReadJSONObject reads a JSON object from r. A JSON null yields the empty
// object; any other non-object value is an error.
func ReadJSONObject(r *jsonx.Reader, a Annotation) (Object, error) {
	tok, err := r.Token()
	if err != nil {
		return Object{}, err
	}
	if tok == nil {
		return Object{}, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Object{}, fmt.Errorf("%w: metadata must be a JSON object, got %s", jsonx.ErrSyntax, jsonx.Describe(tok))
	}
	return readJSONObjectBody(r, a)
}

func readJSONToken(r *jsonx.Reader, tok json.Token, a Annotation) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(a), nil
	case bool:
		return Bool(t, a), nil
	case string:
		return String(t, a), nil
	case json.Number:
		i, f, isInt, err := jsonx.Number(t)
		if err != nil {
			return Value{}, err
		}
		if isInt {
			return Int64(i, a), nil
		}
		return Double(f, a), nil
	case json.Delim:
		switch t {
		case '{':
			obj, err := readJSONObjectBody(r, a)
			if err != nil {
				return Value{}, err
			}
			return FromObject(obj, a), nil
		case '[':
			arr, err := readJSONArrayBody(r, a)
			if err != nil {
				return Value{}, err
			}
			return FromArray(arr, a), nil
		}
	}
	return Value{}, fmt.Errorf("%w: unexpected %s", jsonx.ErrSyntax, jsonx.Describe(tok))
}

// readJSONObjectBody reads members after '{'. Duplicate names keep the last value.
func readJSONObjectBody(r *jsonx.Reader, a Annotation) (Object, error) {
	b := NewObjectBuilder(0)
	defer b.Release()
	for r.More() {
		name, err := r.Name()
		if err != nil {
			return Object{}, err
		}
		v, err := ReadJSONValue(r, a)
		if err != nil {
			return Object{}, err
		}
		if err := b.AddOrReplace(name, v); err != nil {
			return Object{}, err
		}
	}
	if err := r.Expect('}'); err != nil {
		return Object{}, err
	}
	return b.Build()
}

func readJSONArrayBody(r *jsonx.Reader, a Annotation) (Array, error) {
	b := NewArrayBuilder(0)
	defer b.Release()
	for r.More() {
		v, err := ReadJSONValue(r, a)
		if err != nil {
			return Array{}, err
		}
		if err := b.Append(v); err != nil {
			return Array{}, err
		}
	}
	if err := r.Expect(']'); err != nil {
		return Array{}, err
	}
	return b.Build()
}

// WriteJSONValue writes v to w. Annotations are not serialized.
func WriteJSONValue(w *jsonx.Writer, v Value) error {
	switch v.kind {
	case KindNull:
		w.Null()
	case KindBool:
		w.Bool(v.bits != 0)
	case KindInt64:
		w.Int64(int64(v.bits))
	case KindDouble:
		f, _ := v.AsDouble()
		return w.Float64(f)
	case KindString:
		w.String(v.str)
	case KindArray:
		w.BeginArray()
		for _, e := range v.arr.All() {
			if err := WriteJSONValue(w, e); err != nil {
				return err
			}
		}
		w.EndArray()
	case KindObject:
		return WriteJSONObject(w, v.obj)
	default:
		return fmt.Errorf("%w: metadata kind %s", jsonx.ErrUnsupportedValue, v.kind)
	}
	return nil
}

// WriteJSONObject writes o to w as a JSON object in key order.
func WriteJSONObject(w *jsonx.Writer, o Object) error {
	w.BeginObject()
	for k, v := range o.All() {
		w.Name(k)
		if err := WriteJSONValue(w, v); err != nil {
			return err
		}
	}
	w.EndObject()
	return nil
}

func marshal(write func(*jsonx.Writer) error) ([]byte, error) {
	buf := pool.GetEnvelopeBuffer()
	defer pool.PutEnvelopeBuffer(buf)
	if err := write(jsonx.NewWriter(buf)); err != nil {
		return nil, err
	}
	return buf.Clone(), nil
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return marshal(func(w *jsonx.Writer) error { return WriteJSONValue(w, v) })
}

// UnmarshalJSON implements json.Unmarshaler. Decoded values carry no annotation.
func (v *Value) UnmarshalJSON(data []byte) error {
	r := jsonx.NewReader(data)
	out, err := ReadJSONValue(r, AnnotationNone)
	if err != nil {
		return err
	}
	if err := r.EOF(); err != nil {
		return err
	}
	*v = out
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o Object) MarshalJSON() ([]byte, error) {
	return marshal(func(w *jsonx.Writer) error { return WriteJSONObject(w, o) })
}

// UnmarshalJSON implements json.Unmarshaler. Decoded values carry no annotation.
func (o *Object) UnmarshalJSON(data []byte) error {
	r := jsonx.NewReader(data)
	out, err := ReadJSONObject(r, AnnotationNone)
	if err != nil {
		return err
	}
	if err := r.EOF(); err != nil {
		return err
	}
	*o = out
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Array) MarshalJSON() ([]byte, error) {
	return FromArray(a).MarshalJSON()
}
