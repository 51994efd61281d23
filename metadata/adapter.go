package metadata

import (
	"fmt"
	"math"
	"sort"
)

// FromAny converts a Go value into a Value annotated with a.
//
// It accepts nil, bool, string, all integer and float types, Value, Object,
// Array, []any, []string and map[string]any. Nested values carry the same
// annotation.
func FromAny(v any, a ...Annotation) (Value, error) {
	ann := combine(a)
	switch x := v.(type) {
	case nil:
		return Null(ann), nil
	case Value:
		return x, nil
	case Object:
		return FromObject(x, ann), nil
	case Array:
		return FromArray(x, ann), nil
	case bool:
		return Bool(x, ann), nil
	case string:
		return String(x, ann), nil
	case float64:
		return Double(x, ann), nil
	case float32:
		return Double(float64(x), ann), nil
	case int:
		return Int64(int64(x), ann), nil
	case int8:
		return Int64(int64(x), ann), nil
	case int16:
		return Int64(int64(x), ann), nil
	case int32:
		return Int64(int64(x), ann), nil
	case int64:
		return Int64(x, ann), nil
	case uint:
		return fromUint(uint64(x), ann)
	case uint8:
		return Int64(int64(x), ann), nil
	case uint16:
		return Int64(int64(x), ann), nil
	case uint32:
		return Int64(int64(x), ann), nil
	case uint64:
		return fromUint(x, ann)
	case []string:
		b := NewArrayBuilder(len(x))
		defer b.Release()
		for _, s := range x {
			_ = b.Append(String(s, ann))
		}
		arr, err := b.Build()
		return FromArray(arr, ann), err
	case []any:
		b := NewArrayBuilder(len(x))
		defer b.Release()
		for i := range x {
			e, err := FromAny(x[i], ann)
			if err != nil {
				return Value{}, err
			}
			_ = b.Append(e)
		}
		arr, err := b.Build()
		return FromArray(arr, ann), err
	case map[string]any:
		obj, err := ObjectFromMap(x, ann)
		if err != nil {
			return Value{}, err
		}
		return FromObject(obj, ann), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported metadata value type %T", ErrInvalidArgument, v)
	}
}

func fromUint(x uint64, ann Annotation) (Value, error) {
	if x > math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: metadata uint64 out of range: %d", ErrInvalidArgument, x)
	}
	return Int64(int64(x), ann), nil
}

// ObjectFromMap converts a map into an Object whose values carry annotation a.
func ObjectFromMap(m map[string]any, a ...Annotation) (Object, error) {
	if len(m) == 0 {
		return Object{}, nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := NewObjectBuilder(len(keys))
	defer b.Release()
	for _, k := range keys {
		v, err := FromAny(m[k], a...)
		if err != nil {
			return Object{}, fmt.Errorf("key %q: %w", k, err)
		}
		if err := b.Add(k, v); err != nil {
			return Object{}, err
		}
	}
	return b.Build()
}

// ToAny converts v into plain Go values: nil, bool, int64, float64, string,
// []any or map[string]any.
func ToAny(v Value) any {
	switch v.kind {
	case KindBool:
		b, _ := v.AsBool()
		return b
	case KindInt64:
		i, _ := v.AsInt64()
		return i
	case KindDouble:
		f, _ := v.AsDouble()
		return f
	case KindString:
		return v.str
	case KindArray:
		out := make([]any, 0, v.arr.Len())
		for _, e := range v.arr.All() {
			out = append(out, ToAny(e))
		}
		return out
	case KindObject:
		return v.obj.ToMap()
	default:
		return nil
	}
}

// ToMap converts o into a map of plain Go values.
func (o Object) ToMap() map[string]any {
	out := make(map[string]any, o.Len())
	for k, v := range o.All() {
		out[k] = ToAny(v)
	}
	return out
}
