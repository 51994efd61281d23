package metadata

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindNull represents a null value. It is the zero Kind.
	KindNull Kind = iota
	// KindBool represents a boolean value.
	KindBool
	// KindInt64 represents a signed 64-bit integer.
	KindInt64
	// KindDouble represents a 64-bit floating point number.
	KindDouble
	// KindString represents a string value.
	KindString
	// KindArray represents an ordered array of values.
	KindArray
	// KindObject represents a sorted object of key/value entries.
	KindObject
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt64:
		return "int64"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// IsPrimitive reports whether k maps to a JSON primitive
// (null, bool, number or string).
func (k Kind) IsPrimitive() bool {
	return k <= KindString
}

// Annotation is a bit-set recording which transport surfaces may serialize a value.
type Annotation uint8

const (
	// AnnotationNone means the value is never projected onto any surface.
	AnnotationNone Annotation = 0
	// SerializeInHTTPBody allows the value in HTTP response bodies.
	SerializeInHTTPBody Annotation = 1 << 0
	// SerializeInHTTPHeader allows the value as an HTTP header.
	SerializeInHTTPHeader Annotation = 1 << 1
	// SerializeInCloudEventData allows the value inside the CloudEvent data payload.
	SerializeInCloudEventData Annotation = 1 << 2
	// SerializeAsCloudEventExtension allows the value as a CloudEvent extension attribute.
	SerializeAsCloudEventExtension Annotation = 1 << 3

	annotationAll = SerializeInHTTPBody | SerializeInHTTPHeader |
		SerializeInCloudEventData | SerializeAsCloudEventExtension
)

// Has reports whether every bit of flag is set in a.
// Has(AnnotationNone) is always true.
func (a Annotation) Has(flag Annotation) bool {
	return a&flag == flag
}

// String lists the set flags separated by '|'.
func (a Annotation) String() string {
	if a == AnnotationNone {
		return "none"
	}
	var parts []string
	if a.Has(SerializeInHTTPBody) {
		parts = append(parts, "http-body")
	}
	if a.Has(SerializeInHTTPHeader) {
		parts = append(parts, "http-header")
	}
	if a.Has(SerializeInCloudEventData) {
		parts = append(parts, "cloudevent-data")
	}
	if a.Has(SerializeAsCloudEventExtension) {
		parts = append(parts, "cloudevent-extension")
	}
	if rest := a &^ annotationAll; rest != 0 {
		parts = append(parts, "0x"+strconv.FormatUint(uint64(rest), 16))
	}
	return strings.Join(parts, "|")
}

func combine(a []Annotation) Annotation {
	var out Annotation
	for _, x := range a {
		out |= x
	}
	return out
}

// Value is an immutable metadata value.
//
// The zero Value is a null with no annotation. Values are small and meant to
// be passed by value; arrays and objects share their immutable backing data.
type Value struct {
	kind Kind
	ann  Annotation
	bits uint64 // bool, int64 or float64 payload
	str  string
	arr  Array
	obj  Object
}

// Null returns a null Value.
func Null(a ...Annotation) Value {
	return Value{kind: KindNull, ann: combine(a)}
}

// Bool returns a boolean Value.
func Bool(v bool, a ...Annotation) Value {
	var b uint64
	if v {
		b = 1
	}
	return Value{kind: KindBool, ann: combine(a), bits: b}
}

// Int64 returns an integer Value.
func Int64(v int64, a ...Annotation) Value {
	return Value{kind: KindInt64, ann: combine(a), bits: uint64(v)}
}

// Double returns a floating point Value.
func Double(v float64, a ...Annotation) Value {
	return Value{kind: KindDouble, ann: combine(a), bits: math.Float64bits(v)}
}

// String returns a string Value.
func String(v string, a ...Annotation) Value {
	return Value{kind: KindString, ann: combine(a), str: v}
}

// FromArray wraps an Array in a Value.
func FromArray(v Array, a ...Annotation) Value {
	return Value{kind: KindArray, ann: combine(a), arr: v}
}

// FromObject wraps an Object in a Value.
func FromObject(v Object, a ...Annotation) Value {
	return Value{kind: KindObject, ann: combine(a), obj: v}
}

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// Annotation returns the annotation bit-set of v.
func (v Value) Annotation() Annotation { return v.ann }

// HasAnnotation reports whether every bit of flag is set on v.
func (v Value) HasAnnotation(flag Annotation) bool { return v.ann.Has(flag) }

// WithAnnotation returns a copy of v whose annotation is replaced by a.
func (v Value) WithAnnotation(a Annotation) Value {
	v.ann = a
	return v
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.bits != 0, true
}

// AsInt64 returns the integer value if Kind is KindInt64.
func (v Value) AsInt64() (int64, bool) {
	if v.kind != KindInt64 {
		return 0, false
	}
	return int64(v.bits), true
}

// AsDouble returns the floating point value if Kind is KindDouble.
func (v Value) AsDouble() (float64, bool) {
	if v.kind != KindDouble {
		return 0, false
	}
	return math.Float64frombits(v.bits), true
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsArray returns the array value if Kind is KindArray.
func (v Value) AsArray() (Array, bool) {
	if v.kind != KindArray {
		return Array{}, false
	}
	return v.arr, true
}

// AsObject returns the object value if Kind is KindObject.
func (v Value) AsObject() (Object, bool) {
	if v.kind != KindObject {
		return Object{}, false
	}
	return v.obj, true
}

// Equal reports whether v and other have the same kind, annotation and payload.
// Arrays and objects compare element-wise. Doubles compare by value, so NaN is
// never equal to itself.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind || v.ann != other.ann {
		return false
	}
	return v.payloadEqual(other)
}

// EqualIgnoringAnnotation compares kind and payload only, recursing into
// containers with the same relaxed rule.
func (v Value) EqualIgnoringAnnotation(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindArray:
		return v.arr.equal(other.arr, false)
	case KindObject:
		return v.obj.equal(other.obj, false)
	default:
		return v.payloadEqual(other)
	}
}

func (v Value) payloadEqual(other Value) bool {
	switch v.kind {
	case KindNull:
		return true
	case KindBool, KindInt64:
		return v.bits == other.bits
	case KindDouble:
		return math.Float64frombits(v.bits) == math.Float64frombits(other.bits)
	case KindString:
		return v.str == other.str
	case KindArray:
		return v.arr.Equal(other.arr)
	case KindObject:
		return v.obj.Equal(other.obj)
	default:
		return false
	}
}

// String returns a compact debug rendering of v. It is not JSON.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.bits != 0)
	case KindInt64:
		return strconv.FormatInt(int64(v.bits), 10)
	case KindDouble:
		return strconv.FormatFloat(math.Float64frombits(v.bits), 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.str)
	case KindArray:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range v.arr.All() {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(e.String())
		}
		sb.WriteByte(']')
		return sb.String()
	case KindObject:
		var sb strings.Builder
		sb.WriteByte('{')
		first := true
		for k, e := range v.obj.All() {
			if !first {
				sb.WriteByte(' ')
			}
			first = false
			sb.WriteString(k)
			sb.WriteByte(':')
			sb.WriteString(e.String())
		}
		sb.WriteByte('}')
		return sb.String()
	default:
		return "invalid"
	}
}
