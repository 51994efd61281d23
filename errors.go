package results

import (
	"errors"

	"github.com/hupe1980/results/metadata"
)

var (
	// ErrInvalidArgument is returned for invalid input.
	ErrInvalidArgument = metadata.ErrInvalidArgument

	// ErrDuplicateKey is returned when a metadata key is added twice.
	ErrDuplicateKey = metadata.ErrDuplicateKey

	// ErrKeyNotFound is returned when a metadata key is replaced but absent.
	ErrKeyNotFound = metadata.ErrKeyNotFound

	// ErrBuilderConsumed is returned when a metadata builder is used after Build.
	ErrBuilderConsumed = metadata.ErrBuilderConsumed

	// ErrConflict is returned for merge and registry key collisions.
	ErrConflict = metadata.ErrConflict

	// ErrInvalidOperation is returned when a Result is accessed in the wrong
	// state, such as reading the value of a failure.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrNotSupported is returned by deliberately one-directional components.
	ErrNotSupported = errors.New("not supported")
)
