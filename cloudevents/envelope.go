package cloudevents

import (
	"time"

	"github.com/hupe1980/results"
	"github.com/hupe1980/results/metadata"
)

// Envelope is a decoded CloudEvents envelope together with the result it
// carries. Optional attributes that were absent hold their zero value.
type Envelope[T any] struct {
	Type            string
	Source          string
	ID              string
	Subject         string
	Time            time.Time
	DataContentType string
	DataSchema      string

	// Extensions holds every non-standard attribute, lroutcome included,
	// sorted by name.
	Extensions metadata.Object

	Result results.Result[T]
}

// IsFailure reports whether the envelope carries a failed result.
func (e Envelope[T]) IsFailure() bool { return e.Result.IsFailure() }
