package metadata

import (
	"iter"

	"github.com/hupe1980/results/internal/pool"
)

type arrayData struct {
	values []Value
}

// Array is an immutable ordered sequence of values.
//
// The zero Array is empty and allocation free.
type Array struct {
	d *arrayData
}

// NewArray returns an Array holding a copy of values.
func NewArray(values ...Value) Array {
	if len(values) == 0 {
		return Array{}
	}
	owned := make([]Value, len(values))
	copy(owned, values)
	return Array{d: &arrayData{values: owned}}
}

// Len returns the number of elements.
func (a Array) Len() int {
	if a.d == nil {
		return 0
	}
	return len(a.d.values)
}

// At returns the element at index i. It panics if i is out of range.
func (a Array) At(i int) Value {
	return a.d.values[i]
}

// All iterates over index/value pairs in order.
func (a Array) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		if a.d == nil {
			return
		}
		for i, v := range a.d.values {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values returns a copy of the elements.
func (a Array) Values() []Value {
	if a.Len() == 0 {
		return nil
	}
	out := make([]Value, len(a.d.values))
	copy(out, a.d.values)
	return out
}

// Equal reports whether a and other hold equal values in the same order.
func (a Array) Equal(other Array) bool {
	return a.equal(other, true)
}

func (a Array) equal(other Array, annotations bool) bool {
	if a.Len() != other.Len() {
		return false
	}
	if a.d == other.d {
		return true
	}
	for i, v := range a.d.values {
		if annotations {
			if !v.Equal(other.d.values[i]) {
				return false
			}
		} else if !v.EqualIgnoringAnnotation(other.d.values[i]) {
			return false
		}
	}
	return true
}

var valuePool pool.SlicePool[Value]

// ArrayBuilder stages values for an Array.
//
// A builder is single-use and not safe for concurrent use. Storage is borrowed
// from a shared pool; Build or Release returns it.
type ArrayBuilder struct {
	values   []Value
	consumed bool
}

// NewArrayBuilder returns a builder with room for at least capacity values.
func NewArrayBuilder(capacity int) *ArrayBuilder {
	return &ArrayBuilder{values: valuePool.Get(capacity)}
}

// Append adds v to the end of the array.
func (b *ArrayBuilder) Append(v Value) error {
	if b.consumed {
		return ErrBuilderConsumed
	}
	b.values = valuePool.Grow(b.values, 1)
	b.values = append(b.values, v)
	return nil
}

// Len returns the number of staged values.
func (b *ArrayBuilder) Len() int { return len(b.values) }

// Build copies the staged values into a new Array and releases the builder.
func (b *ArrayBuilder) Build() (Array, error) {
	if b.consumed {
		return Array{}, ErrBuilderConsumed
	}
	arr := NewArray(b.values...)
	b.Release()
	return arr, nil
}

// Release returns pooled storage. It is safe to call more than once and
// after Build.
func (b *ArrayBuilder) Release() {
	if b.consumed {
		return
	}
	b.consumed = true
	valuePool.Put(b.values)
	b.values = nil
}
