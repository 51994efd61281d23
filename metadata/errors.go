package metadata

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for invalid input such as an empty key.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateKey is returned when Add targets a key that already exists.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrKeyNotFound is returned when Replace targets a missing key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrBuilderConsumed is returned when a builder is used after Build or Release.
	ErrBuilderConsumed = errors.New("builder already built or released")

	// ErrConflict is returned when a merge under FailOnConflict meets a key
	// present on both sides.
	ErrConflict = errors.New("metadata conflict")
)

// KeyError reports a key-level failure of a builder operation.
//
// It matches ErrDuplicateKey or ErrKeyNotFound via errors.Is.
type KeyError struct {
	Key   string
	cause error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s: %q", e.cause, e.Key)
}

func (e *KeyError) Unwrap() error { return e.cause }

// ConflictError names the key that caused a FailOnConflict merge to fail.
type ConflictError struct {
	Key string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate metadata key %q", e.Key)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
