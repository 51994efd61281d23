package results

import "github.com/hupe1980/results/metadata"

// Well-known tracing metadata keys.
const (
	SourceKey        = "source"
	CorrelationIDKey = "correlationId"
)

// WithSource sets the source tracing key on r.
func WithSource[T any](r Result[T], source string, a ...metadata.Annotation) Result[T] {
	return r.WithMetadataEntries(metadata.Pair(SourceKey, metadata.String(source, a...)))
}

// WithCorrelationID sets the correlation id tracing key on r.
func WithCorrelationID[T any](r Result[T], correlationID string, a ...metadata.Annotation) Result[T] {
	return r.WithMetadataEntries(metadata.Pair(CorrelationIDKey, metadata.String(correlationID, a...)))
}

// WithTracing sets both tracing keys on r.
func WithTracing[T any](r Result[T], source, correlationID string, a ...metadata.Annotation) Result[T] {
	return r.WithMetadataEntries(
		metadata.Pair(SourceKey, metadata.String(source, a...)),
		metadata.Pair(CorrelationIDKey, metadata.String(correlationID, a...)),
	)
}

// SourceOf returns the source tracing key of r if it is a string.
func SourceOf[T any](r Result[T]) (string, bool) {
	return r.md.GetString(SourceKey)
}

// CorrelationIDOf returns the correlation id tracing key of r if it is a string.
func CorrelationIDOf[T any](r Result[T]) (string, bool) {
	return r.md.GetString(CorrelationIDKey)
}
