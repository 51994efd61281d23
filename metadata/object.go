package metadata

import (
	"iter"
	"slices"
	"sync/atomic"
)

type objectData struct {
	keys   []string
	values []Value
	index  atomic.Pointer[keyIndex]
}

// Object is an immutable mapping from unique string keys to values.
//
// Keys are kept sorted by ordinal byte comparison. The zero Object is empty.
// Objects are safe for concurrent use; the lazily built lookup index is
// published atomically and every racing builder produces the same table.
type Object struct {
	d *objectData
}

// Entry is a single key/value pair of an Object.
type Entry struct {
	Key   string
	Value Value
}

// Pair is shorthand for Entry{Key: key, Value: value}.
func Pair(key string, value Value) Entry {
	return Entry{Key: key, Value: value}
}

// NewObject builds an Object from entries. Duplicate keys fail with ErrDuplicateKey.
func NewObject(entries ...Entry) (Object, error) {
	if len(entries) == 0 {
		return Object{}, nil
	}
	b := NewObjectBuilder(len(entries))
	defer b.Release()
	for _, e := range entries {
		if err := b.Add(e.Key, e.Value); err != nil {
			return Object{}, err
		}
	}
	return b.Build()
}

// MustObject is like NewObject but panics on error. Intended for literals.
func MustObject(entries ...Entry) Object {
	obj, err := NewObject(entries...)
	if err != nil {
		panic(err)
	}
	return obj
}

// newObjectOwned wraps already sorted, unique slices without copying.
func newObjectOwned(keys []string, values []Value) Object {
	if len(keys) == 0 {
		return Object{}
	}
	return Object{d: &objectData{keys: keys, values: values}}
}

// Len returns the number of entries.
func (o Object) Len() int {
	if o.d == nil {
		return 0
	}
	return len(o.d.keys)
}

// IsEmpty reports whether o has no entries.
func (o Object) IsEmpty() bool { return o.Len() == 0 }

func (o Object) find(key string) (int, bool) {
	if o.d == nil {
		return -1, false
	}
	if len(o.d.keys) <= indexThreshold {
		return slices.BinarySearch(o.d.keys, key)
	}
	ix := o.d.index.Load()
	if ix == nil {
		ix = buildKeyIndex(o.d.keys)
		o.d.index.Store(ix)
	}
	return ix.find(o.d.keys, key)
}

// Get returns the value stored under key.
func (o Object) Get(key string) (Value, bool) {
	i, ok := o.find(key)
	if !ok {
		return Value{}, false
	}
	return o.d.values[i], true
}

// Has reports whether key is present.
func (o Object) Has(key string) bool {
	_, ok := o.find(key)
	return ok
}

// GetString returns the string stored under key.
func (o Object) GetString(key string) (string, bool) {
	v, ok := o.Get(key)
	if !ok {
		return "", false
	}
	return v.AsString()
}

// GetInt64 returns the integer stored under key.
func (o Object) GetInt64(key string) (int64, bool) {
	v, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	return v.AsInt64()
}

// GetDouble returns the floating point number stored under key.
func (o Object) GetDouble(key string) (float64, bool) {
	v, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	return v.AsDouble()
}

// GetBool returns the boolean stored under key.
func (o Object) GetBool(key string) (bool, bool) {
	v, ok := o.Get(key)
	if !ok {
		return false, false
	}
	return v.AsBool()
}

// GetObject returns the nested object stored under key.
func (o Object) GetObject(key string) (Object, bool) {
	v, ok := o.Get(key)
	if !ok {
		return Object{}, false
	}
	return v.AsObject()
}

// GetArray returns the array stored under key.
func (o Object) GetArray(key string) (Array, bool) {
	v, ok := o.Get(key)
	if !ok {
		return Array{}, false
	}
	return v.AsArray()
}

// At returns the i-th entry in key order. It panics if i is out of range.
func (o Object) At(i int) Entry {
	return Entry{Key: o.d.keys[i], Value: o.d.values[i]}
}

// All iterates over entries in ascending key order.
func (o Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o.d == nil {
			return
		}
		for i, k := range o.d.keys {
			if !yield(k, o.d.values[i]) {
				return
			}
		}
	}
}

// Keys returns a copy of the keys in ascending order.
func (o Object) Keys() []string {
	if o.d == nil {
		return nil
	}
	return slices.Clone(o.d.keys)
}

// Entries returns a copy of the entries in ascending key order.
func (o Object) Entries() []Entry {
	if o.d == nil {
		return nil
	}
	out := make([]Entry, len(o.d.keys))
	for i, k := range o.d.keys {
		out[i] = Entry{Key: k, Value: o.d.values[i]}
	}
	return out
}

// With returns a new Object with key set to value.
func (o Object) With(key string, value Value) Object {
	b := ObjectBuilderFrom(o)
	defer b.Release()
	_ = b.AddOrReplace(key, value)
	obj, _ := b.Build()
	return obj
}

// WithEntries returns a new Object with every entry added or replaced.
// Later entries win over earlier ones with the same key.
func (o Object) WithEntries(entries ...Entry) Object {
	if len(entries) == 0 {
		return o
	}
	b := ObjectBuilderFrom(o)
	defer b.Release()
	for _, e := range entries {
		_ = b.AddOrReplace(e.Key, e.Value)
	}
	obj, _ := b.Build()
	return obj
}

// Without returns a new Object without the given keys.
func (o Object) Without(keys ...string) Object {
	if o.IsEmpty() || len(keys) == 0 {
		return o
	}
	return o.filter(func(k string, _ Value) bool {
		return !slices.Contains(keys, k)
	})
}

// HasAnyAnnotated reports whether any top-level entry carries every bit of flag.
func (o Object) HasAnyAnnotated(flag Annotation) bool {
	for _, v := range o.All() {
		if v.HasAnnotation(flag) {
			return true
		}
	}
	return false
}

// Filter returns the top-level entries that carry every bit of flag.
func (o Object) Filter(flag Annotation) Object {
	return o.filter(func(_ string, v Value) bool { return v.HasAnnotation(flag) })
}

func (o Object) filter(keep func(string, Value) bool) Object {
	n := 0
	for k, v := range o.All() {
		if keep(k, v) {
			n++
		}
	}
	if n == o.Len() {
		return o
	}
	if n == 0 {
		return Object{}
	}
	keys := make([]string, 0, n)
	values := make([]Value, 0, n)
	for k, v := range o.All() {
		if keep(k, v) {
			keys = append(keys, k)
			values = append(values, v)
		}
	}
	return newObjectOwned(keys, values)
}

// WithAnnotation returns a copy whose top-level values carry annotation a.
// Nested values keep their annotations.
func (o Object) WithAnnotation(a Annotation) Object {
	if o.IsEmpty() {
		return o
	}
	keys := slices.Clone(o.d.keys)
	values := make([]Value, len(o.d.values))
	for i, v := range o.d.values {
		values[i] = v.WithAnnotation(a)
	}
	return newObjectOwned(keys, values)
}

// Equal reports whether o and other hold equal entries, annotations included.
func (o Object) Equal(other Object) bool {
	return o.equal(other, true)
}

// EqualIgnoringAnnotation compares keys and payloads only.
func (o Object) EqualIgnoringAnnotation(other Object) bool {
	return o.equal(other, false)
}

func (o Object) equal(other Object, annotations bool) bool {
	if o.Len() != other.Len() {
		return false
	}
	if o.d == other.d {
		return true
	}
	for i, k := range o.d.keys {
		if other.d.keys[i] != k {
			return false
		}
		if annotations {
			if !o.d.values[i].Equal(other.d.values[i]) {
				return false
			}
		} else if !o.d.values[i].EqualIgnoringAnnotation(other.d.values[i]) {
			return false
		}
	}
	return true
}

// String returns a compact debug rendering of o.
func (o Object) String() string {
	return FromObject(o).String()
}
