package httpbody

import (
	"errors"
	"strings"
)

var (
	// ErrParse is matched by every error that reports an unreadable response.
	ErrParse = errors.New("invalid http result body")

	// ErrInvalidResult is matched by errors about results that cannot be
	// written as a response.
	ErrInvalidResult = errors.New("invalid http result")
)

// ParseError describes why a response could not be read. Field names the
// offending body member or header when one applies.
type ParseError struct {
	Field  string
	Reason string
	Err    error
}

func parseErr(field, reason string) *ParseError {
	return &ParseError{Field: field, Reason: reason}
}

func parseErrWrap(field, reason string, err error) *ParseError {
	return &ParseError{Field: field, Reason: reason, Err: err}
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("httpbody: ")
	if e.Field != "" {
		sb.WriteString("'")
		sb.WriteString(e.Field)
		sb.WriteString("' ")
	}
	sb.WriteString(e.Reason)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}
