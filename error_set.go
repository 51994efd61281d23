package results

import (
	"fmt"
	"iter"
	"strings"
)

// Errors is an immutable, non-empty collection of Error values.
//
// A single error is stored inline without a heap allocation; two or more
// errors share one owned slice. The zero Errors is empty and only appears on
// successful results.
type Errors struct {
	one  Error
	many []Error
}

// NewErrors builds a collection from errs. It fails with ErrInvalidArgument
// when errs is empty or any element has no message.
func NewErrors(errs ...Error) (Errors, error) {
	switch len(errs) {
	case 0:
		return Errors{}, fmt.Errorf("%w: errors must contain at least one error", ErrInvalidArgument)
	case 1:
		if errs[0].Message == "" {
			return Errors{}, fmt.Errorf("%w: errors[0] must have a message", ErrInvalidArgument)
		}
		return Errors{one: errs[0]}, nil
	}
	for i := range errs {
		if errs[i].Message == "" {
			return Errors{}, fmt.Errorf("%w: errors[%d] must have a message", ErrInvalidArgument, i)
		}
	}
	owned := make([]Error, len(errs))
	copy(owned, errs)
	return Errors{many: owned}, nil
}

// MustErrors is like NewErrors but panics on invalid input.
func MustErrors(errs ...Error) Errors {
	out, err := NewErrors(errs...)
	if err != nil {
		panic(err)
	}
	return out
}

// Len returns the number of errors.
func (e Errors) Len() int {
	if e.many != nil {
		return len(e.many)
	}
	if e.one.Message != "" {
		return 1
	}
	return 0
}

// IsEmpty reports whether the collection holds no errors.
func (e Errors) IsEmpty() bool { return e.Len() == 0 }

// At returns the i-th error. It panics if i is out of range.
func (e Errors) At(i int) Error {
	if e.many != nil {
		return e.many[i]
	}
	if i != 0 || e.one.Message == "" {
		panic(fmt.Sprintf("results: error index %d out of range [0:%d]", i, e.Len()))
	}
	return e.one
}

// First returns the first error, or the zero Error if the collection is empty.
func (e Errors) First() Error {
	if e.many != nil {
		return e.many[0]
	}
	return e.one
}

// All iterates over index/error pairs in insertion order.
func (e Errors) All() iter.Seq2[int, Error] {
	return func(yield func(int, Error) bool) {
		if e.many != nil {
			for i, err := range e.many {
				if !yield(i, err) {
					return
				}
			}
			return
		}
		if e.one.Message != "" {
			yield(0, e.one)
		}
	}
}

// Slice returns a copy of the errors.
func (e Errors) Slice() []Error {
	if e.many != nil {
		out := make([]Error, len(e.many))
		copy(out, e.many)
		return out
	}
	if e.one.Message != "" {
		return []Error{e.one}
	}
	return nil
}

// Equal reports whether both collections hold equal errors in the same order.
// The storage layout is irrelevant.
func (e Errors) Equal(other Errors) bool {
	n := e.Len()
	if n != other.Len() {
		return false
	}
	for i := 0; i < n; i++ {
		if !e.At(i).Equal(other.At(i)) {
			return false
		}
	}
	return true
}

// LeadingCategory returns the category that best describes the collection.
// With firstWins the first error decides; otherwise the shared category of
// all errors is returned, or CategoryUnclassified if they differ.
func (e Errors) LeadingCategory(firstWins bool) Category {
	if e.IsEmpty() {
		return CategoryUnclassified
	}
	first := e.First().Category
	if firstWins {
		return first
	}
	for _, err := range e.All() {
		if err.Category != first {
			return CategoryUnclassified
		}
	}
	return first
}

// Map returns a new collection with fn applied to every error.
func (e Errors) Map(fn func(Error) Error) (Errors, error) {
	mapped := make([]Error, 0, e.Len())
	for _, err := range e.All() {
		mapped = append(mapped, fn(err))
	}
	return NewErrors(mapped...)
}

// Error implements the error interface by joining all messages.
func (e Errors) Error() string {
	switch e.Len() {
	case 0:
		return "no errors"
	case 1:
		return e.First().Error()
	}
	var sb strings.Builder
	for i, err := range e.All() {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}
