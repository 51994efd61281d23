package results

import "github.com/hupe1980/results/metadata"

// Map transforms the success value of r. Errors and metadata carry over.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.IsFailure() {
		return Result[U]{errs: r.errs, md: r.md}
	}
	return Result[U]{value: fn(r.value), md: r.md}
}

// Bind chains an operation that itself returns a Result. The metadata of r
// is merged with the metadata of the produced result using
// metadata.AddOrReplace, so both steps contribute and the produced result
// wins on shared keys.
func Bind[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	// AddOrReplace never reports a conflict.
	out, _ := BindWith(r, fn, metadata.AddOrReplace)
	return out
}

// BindWith is Bind with an explicit merge strategy. The metadata of r is
// the original side of the merge.
func BindWith[T, U any](r Result[T], fn func(T) Result[U], strategy metadata.MergeStrategy) (Result[U], error) {
	if r.IsFailure() {
		return Result[U]{errs: r.errs, md: r.md}, nil
	}
	inner := fn(r.value)
	merged, changed, err := metadata.MergeIfNeeded(r.md, inner.md, strategy)
	if err != nil {
		return inner, err
	}
	if changed || !merged.Equal(inner.md) {
		inner.md = merged
	}
	return inner, nil
}

// Ensure turns a success into a failure holding e unless predicate holds.
// Metadata is preserved.
func Ensure[T any](r Result[T], predicate func(T) bool, e Error) Result[T] {
	if r.IsFailure() || predicate(r.value) {
		return r
	}
	return FailWith[T](MustErrors(e), r.md)
}

// FailIf turns a success into a failure holding e when predicate holds.
// Metadata is preserved.
func FailIf[T any](r Result[T], predicate func(T) bool, e Error) Result[T] {
	if r.IsFailure() || !predicate(r.value) {
		return r
	}
	return FailWith[T](MustErrors(e), r.md)
}

// MapError transforms every error of a failure. Metadata is untouched.
// It panics if fn returns an error without a message.
func MapError[T any](r Result[T], fn func(Error) Error) Result[T] {
	if r.IsSuccess() {
		return r
	}
	mapped, err := r.errs.Map(fn)
	if err != nil {
		panic(err)
	}
	return Result[T]{errs: mapped, md: r.md}
}

// Tap calls fn with the success value and returns r unchanged.
func Tap[T any](r Result[T], fn func(T)) Result[T] {
	if r.IsSuccess() {
		fn(r.value)
	}
	return r
}

// TapError calls fn with the errors of a failure and returns r unchanged.
func TapError[T any](r Result[T], fn func(Errors)) Result[T] {
	if r.IsFailure() {
		fn(r.errs)
	}
	return r
}
