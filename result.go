package results

import (
	"fmt"
	"reflect"

	"github.com/hupe1980/results/metadata"
)

// Result holds exactly one of a success value of type T or a non-empty
// Errors collection, plus optional metadata that is orthogonal to the outcome.
//
// The zero Result is a success holding the zero value of T. Results are
// immutable; every transformation returns a new Result.
type Result[T any] struct {
	value T
	errs  Errors
	md    metadata.Object
}

// Ok returns a successful Result holding v.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// OkWithMetadata returns a successful Result holding v and md.
func OkWithMetadata[T any](v T, md metadata.Object) Result[T] {
	return Result[T]{value: v, md: md}
}

// Fail returns a failed Result. It panics if any error has no message; use
// NewFailure to validate untrusted input.
func Fail[T any](e Error, more ...Error) Result[T] {
	errs, err := NewErrors(append([]Error{e}, more...)...)
	if err != nil {
		panic(err)
	}
	return Result[T]{errs: errs}
}

// FailWith returns a failed Result holding errs and md. It panics if errs is empty.
func FailWith[T any](errs Errors, md metadata.Object) Result[T] {
	if errs.IsEmpty() {
		panic(fmt.Errorf("%w: failed result requires at least one error", ErrInvalidArgument))
	}
	return Result[T]{errs: errs, md: md}
}

// NewFailure returns a failed Result or an ErrInvalidArgument error when errs
// is empty or holds an error without a message.
func NewFailure[T any](errs ...Error) (Result[T], error) {
	set, err := NewErrors(errs...)
	if err != nil {
		return Result[T]{}, err
	}
	return Result[T]{errs: set}, nil
}

// IsSuccess reports whether r holds a value.
func (r Result[T]) IsSuccess() bool { return r.errs.IsEmpty() }

// IsFailure reports whether r holds errors.
func (r Result[T]) IsFailure() bool { return !r.errs.IsEmpty() }

// Value returns the success value, or ErrInvalidOperation on a failure.
func (r Result[T]) Value() (T, error) {
	if r.IsFailure() {
		var zero T
		return zero, fmt.Errorf("%w: cannot access the value of a failed result", ErrInvalidOperation)
	}
	return r.value, nil
}

// MustValue returns the success value and panics on a failure.
func (r Result[T]) MustValue() T {
	v, err := r.Value()
	if err != nil {
		panic(err)
	}
	return v
}

// ValueOr returns the success value, or fallback on a failure.
func (r Result[T]) ValueOr(fallback T) T {
	if r.IsFailure() {
		return fallback
	}
	return r.value
}

// Errors returns the errors, or ErrInvalidOperation on a success.
func (r Result[T]) Errors() (Errors, error) {
	if r.IsSuccess() {
		return Errors{}, fmt.Errorf("%w: cannot access the errors of a successful result", ErrInvalidOperation)
	}
	return r.errs, nil
}

// FirstError returns the first error, or ErrInvalidOperation on a success.
func (r Result[T]) FirstError() (Error, error) {
	errs, err := r.Errors()
	if err != nil {
		return Error{}, err
	}
	return errs.First(), nil
}

// Metadata returns the result-level metadata.
func (r Result[T]) Metadata() metadata.Object { return r.md }

// WithMetadata returns a copy of r with its metadata replaced.
func (r Result[T]) WithMetadata(md metadata.Object) Result[T] {
	r.md = md
	return r
}

// WithMetadataEntries returns a copy of r with entries added to or replacing
// its metadata.
func (r Result[T]) WithMetadataEntries(entries ...metadata.Entry) Result[T] {
	r.md = r.md.WithEntries(entries...)
	return r
}

// MergeMetadata returns a copy of r with md merged into its metadata.
func (r Result[T]) MergeMetadata(md metadata.Object, strategy metadata.MergeStrategy) (Result[T], error) {
	merged, changed, err := metadata.MergeIfNeeded(r.md, md, strategy)
	if err != nil {
		return r, err
	}
	if !changed {
		return r, nil
	}
	r.md = merged
	return r, nil
}

// ClearMetadata returns a copy of r without metadata.
func (r Result[T]) ClearMetadata() Result[T] {
	r.md = metadata.Object{}
	return r
}

// Switch calls onSuccess with the value or onError with the errors.
func (r Result[T]) Switch(onSuccess func(T), onError func(Errors)) {
	if r.IsSuccess() {
		onSuccess(r.value)
		return
	}
	onError(r.errs)
}

// Equal compares r and other. Metadata is compared only when
// compareMetadata is set. Values are compared with eq, or with
// reflect.DeepEqual when eq is nil.
func (r Result[T]) Equal(other Result[T], compareMetadata bool, eq func(a, b T) bool) bool {
	if r.IsSuccess() != other.IsSuccess() {
		return false
	}
	if compareMetadata && !r.md.Equal(other.md) {
		return false
	}
	if r.IsFailure() {
		return r.errs.Equal(other.errs)
	}
	if eq == nil {
		return reflect.DeepEqual(r.value, other.value)
	}
	return eq(r.value, other.value)
}

// String renders r as Ok(value) or Fail(codes).
func (r Result[T]) String() string {
	if r.IsSuccess() {
		return fmt.Sprintf("Ok(%v)", r.value)
	}
	return fmt.Sprintf("Fail(%s)", r.errs.Error())
}
