package cloudevents

import (
	"errors"
	"strings"

	"github.com/hupe1980/results"
)

var (
	// ErrParse is matched by every error that reports a malformed or invalid
	// envelope.
	ErrParse = errors.New("invalid cloudevent envelope")

	// ErrInvalidAttribute is matched by errors about attributes that cannot
	// be written.
	ErrInvalidAttribute = errors.New("invalid cloudevent attribute")

	// ErrNotSupported reports a deliberately unsupported feature such as
	// data_base64 payloads.
	ErrNotSupported = results.ErrNotSupported

	// ErrConflict reports duplicate registrations and conflicting attribute
	// mappings.
	ErrConflict = results.ErrConflict
)

// ParseError describes why an envelope could not be read. Attribute names
// the offending envelope attribute when one applies.
type ParseError struct {
	Attribute string
	Reason    string
	Err       error
}

func parseErr(attr, reason string) *ParseError {
	return &ParseError{Attribute: attr, Reason: reason}
}

func parseErrWrap(attr, reason string, err error) *ParseError {
	return &ParseError{Attribute: attr, Reason: reason, Err: err}
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("cloudevents: ")
	if e.Attribute != "" {
		sb.WriteString("attribute '")
		sb.WriteString(e.Attribute)
		sb.WriteString("' ")
	}
	sb.WriteString(e.Reason)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap exposes ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// AttributeError describes an attribute that cannot be converted or resolved
// for writing.
type AttributeError struct {
	Attribute string
	Reason    string
	Err       error
}

func attrErr(attr, reason string) *AttributeError {
	return &AttributeError{Attribute: attr, Reason: reason}
}

func (e *AttributeError) Error() string {
	msg := "cloudevents: attribute '" + e.Attribute + "' " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes ErrInvalidAttribute and the underlying cause.
func (e *AttributeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidAttribute}
	}
	return []error{ErrInvalidAttribute, e.Err}
}
