package pool

import (
	"math/bits"
	"sync"
)

const (
	// MinSliceCapacity is the smallest capacity handed out by a SlicePool.
	MinSliceCapacity = 4

	// MaxPooledCapacity is the largest capacity a SlicePool retains.
	// Larger slices are allocated on demand and dropped on Put.
	MaxPooledCapacity = 1 << 12

	minClassShift = 2
	maxClassShift = 12
	numClasses    = maxClassShift - minClassShift + 1
)

// SlicePool pools slices of T in power-of-two capacity classes.
//
// The zero value is ready to use. A SlicePool must not be copied after first use.
type SlicePool[T any] struct {
	classes [numClasses]sync.Pool
}

// classFor returns the size class index for the given capacity and the
// rounded capacity itself.
func classFor(capacity int) (int, int) {
	if capacity <= MinSliceCapacity {
		return 0, MinSliceCapacity
	}
	shift := bits.Len(uint(capacity - 1))
	return shift - minClassShift, 1 << shift
}

// RoundCapacity rounds n up to the capacity a SlicePool would hand out.
func RoundCapacity(n int) int {
	if n > MaxPooledCapacity {
		return n
	}
	_, c := classFor(n)
	return c
}

// Get returns an empty slice with capacity of at least capacity, rounded up
// to the next power of two.
func (p *SlicePool[T]) Get(capacity int) []T {
	if capacity > MaxPooledCapacity {
		return make([]T, 0, capacity)
	}
	class, rounded := classFor(capacity)
	if ptr, ok := p.classes[class].Get().(*[]T); ok && ptr != nil {
		return (*ptr)[:0]
	}
	return make([]T, 0, rounded)
}

// Put returns s to the pool. Slices whose capacity is not an exact size
// class are dropped. The full backing array is zeroed so that pooled storage
// never pins strings or nested containers.
func (p *SlicePool[T]) Put(s []T) {
	c := cap(s)
	if c < MinSliceCapacity || c > MaxPooledCapacity || c&(c-1) != 0 {
		return
	}
	s = s[:c]
	clear(s)
	s = s[:0]
	class, _ := classFor(c)
	p.classes[class].Put(&s)
}

// Grow returns a slice holding the contents of s with room for at least
// need more elements. When a larger slice is required the old one is returned
// to the pool and capacity doubles.
func (p *SlicePool[T]) Grow(s []T, need int) []T {
	if cap(s)-len(s) >= need {
		return s
	}
	newCap := max(cap(s)*2, MinSliceCapacity)
	for newCap-len(s) < need {
		newCap *= 2
	}
	grown := p.Get(newCap)[:len(s)]
	copy(grown, s)
	p.Put(s)
	return grown
}
