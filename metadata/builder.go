package metadata

import (
	"slices"

	"github.com/hupe1980/results/internal/pool"
)

var keyPool pool.SlicePool[string]

// DefaultBuilderCapacity is the capacity used when a builder is created with
// a non-positive capacity.
const DefaultBuilderCapacity = 4

// ObjectBuilder stages entries for an Object.
//
// Entries are kept sorted while they are added, so Build never sorts. A
// builder is single-use and not safe for concurrent use. It borrows storage
// from a shared pool; Build returns it, and Release returns it on paths that
// never reach Build:
//
//	b := metadata.NewObjectBuilder(0)
//	defer b.Release()
type ObjectBuilder struct {
	keys     []string
	values   []Value
	consumed bool
}

// NewObjectBuilder returns an empty builder with room for at least capacity entries.
func NewObjectBuilder(capacity int) *ObjectBuilder {
	if capacity <= 0 {
		capacity = DefaultBuilderCapacity
	}
	return &ObjectBuilder{
		keys:   keyPool.Get(capacity),
		values: valuePool.Get(capacity),
	}
}

// ObjectBuilderFrom returns a builder seeded with the entries of o.
func ObjectBuilderFrom(o Object) *ObjectBuilder {
	n := o.Len()
	b := NewObjectBuilder(max(n+1, DefaultBuilderCapacity))
	if n > 0 {
		b.keys = append(b.keys, o.d.keys...)
		b.values = append(b.values, o.d.values...)
	}
	return b
}

func (b *ObjectBuilder) search(key string) (int, bool) {
	return slices.BinarySearch(b.keys, key)
}

func (b *ObjectBuilder) insertAt(i int, key string, v Value) {
	b.keys = keyPool.Grow(b.keys, 1)
	b.values = valuePool.Grow(b.values, 1)
	b.keys = slices.Insert(b.keys, i, key)
	b.values = slices.Insert(b.values, i, v)
}

// Add inserts a new entry. It fails with ErrDuplicateKey if key exists.
func (b *ObjectBuilder) Add(key string, v Value) error {
	if b.consumed {
		return ErrBuilderConsumed
	}
	i, found := b.search(key)
	if found {
		return &KeyError{Key: key, cause: ErrDuplicateKey}
	}
	b.insertAt(i, key, v)
	return nil
}

// AddOrReplace inserts key or overwrites its current value.
func (b *ObjectBuilder) AddOrReplace(key string, v Value) error {
	if b.consumed {
		return ErrBuilderConsumed
	}
	i, found := b.search(key)
	if found {
		b.values[i] = v
		return nil
	}
	b.insertAt(i, key, v)
	return nil
}

// Replace overwrites an existing entry. It fails with ErrKeyNotFound if key is absent.
func (b *ObjectBuilder) Replace(key string, v Value) error {
	if b.consumed {
		return ErrBuilderConsumed
	}
	i, found := b.search(key)
	if !found {
		return &KeyError{Key: key, cause: ErrKeyNotFound}
	}
	b.values[i] = v
	return nil
}

// Remove deletes key if present and reports whether it was.
func (b *ObjectBuilder) Remove(key string) (bool, error) {
	if b.consumed {
		return false, ErrBuilderConsumed
	}
	i, found := b.search(key)
	if !found {
		return false, nil
	}
	b.keys = slices.Delete(b.keys, i, i+1)
	b.values = slices.Delete(b.values, i, i+1)
	return true, nil
}

// Get returns the staged value for key.
func (b *ObjectBuilder) Get(key string) (Value, bool) {
	if b.consumed {
		return Value{}, false
	}
	i, found := b.search(key)
	if !found {
		return Value{}, false
	}
	return b.values[i], true
}

// Has reports whether key is staged.
func (b *ObjectBuilder) Has(key string) bool {
	_, ok := b.Get(key)
	return ok
}

// Len returns the number of staged entries.
func (b *ObjectBuilder) Len() int { return len(b.keys) }

// Build copies the staged entries into a new immutable Object and releases
// the builder. Any later call fails with ErrBuilderConsumed.
func (b *ObjectBuilder) Build() (Object, error) {
	if b.consumed {
		return Object{}, ErrBuilderConsumed
	}
	var obj Object
	if n := len(b.keys); n > 0 {
		keys := make([]string, n)
		values := make([]Value, n)
		copy(keys, b.keys)
		copy(values, b.values)
		obj = newObjectOwned(keys, values)
	}
	b.Release()
	return obj, nil
}

// Release returns pooled storage without building. It is idempotent and a
// no-op after Build.
func (b *ObjectBuilder) Release() {
	if b.consumed {
		return
	}
	b.consumed = true
	keyPool.Put(b.keys)
	valuePool.Put(b.values)
	b.keys = nil
	b.values = nil
}
