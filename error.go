package results

import (
	"strings"

	"github.com/hupe1980/results/metadata"
)

// Error is a structured, transport-neutral error description.
//
// The zero Error is the "absent" sentinel; it is never stored in Errors.
// Error implements the error interface so it can flow through ordinary Go
// error handling as well.
type Error struct {
	// Message is the human readable description. Required.
	Message string
	// Code is an optional machine readable code.
	Code string
	// Target optionally identifies the offending element, such as a JSON
	// property or header name.
	Target string
	// Category classifies the error. Defaults to CategoryUnclassified.
	Category Category
	// Metadata is optional auxiliary data.
	Metadata metadata.Object
}

// NewError returns an Error with the given message.
func NewError(message string) Error {
	return Error{Message: message}
}

// ValidationError returns a validation Error for target.
func ValidationError(target, message string) Error {
	return Error{Message: message, Target: target, Category: CategoryValidation}
}

// NotFoundError returns a not-found Error.
func NotFoundError(message string) Error {
	return Error{Message: message, Category: CategoryNotFound}
}

// IsZero reports whether e is the absent sentinel.
func (e Error) IsZero() bool {
	return e.Message == "" && e.Code == "" && e.Target == "" &&
		e.Category == CategoryUnclassified && e.Metadata.IsEmpty()
}

// WithCode returns a copy of e with Code set.
func (e Error) WithCode(code string) Error {
	e.Code = code
	return e
}

// WithTarget returns a copy of e with Target set.
func (e Error) WithTarget(target string) Error {
	e.Target = target
	return e
}

// WithCategory returns a copy of e with Category set.
func (e Error) WithCategory(c Category) Error {
	e.Category = c
	return e
}

// WithMetadata returns a copy of e with its metadata replaced.
func (e Error) WithMetadata(md metadata.Object) Error {
	e.Metadata = md
	return e
}

// WithMetadataEntries returns a copy of e with entries added to or replacing
// its metadata.
func (e Error) WithMetadataEntries(entries ...metadata.Entry) Error {
	e.Metadata = e.Metadata.WithEntries(entries...)
	return e
}

// Equal reports whether e and other are identical, metadata included.
func (e Error) Equal(other Error) bool {
	return e.Message == other.Message &&
		e.Code == other.Code &&
		e.Target == other.Target &&
		e.Category == other.Category &&
		e.Metadata.Equal(other.Metadata)
}

// Error implements the error interface.
func (e Error) Error() string {
	var sb strings.Builder
	if e.Code != "" {
		sb.WriteByte('[')
		sb.WriteString(e.Code)
		sb.WriteString("] ")
	}
	sb.WriteString(e.Message)
	if e.Target != "" {
		sb.WriteString(" (target: ")
		sb.WriteString(e.Target)
		sb.WriteByte(')')
	}
	return sb.String()
}
