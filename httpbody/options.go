package httpbody

import (
	"github.com/hupe1980/results"
	"github.com/hupe1980/results/codec"
	"github.com/hupe1980/results/metadata"
)

// PayloadMode selects how the body of a successful response carrying a
// value is read.
type PayloadMode uint8

const (
	// PayloadAuto treats the body as wrapped when it is a non-empty object
	// whose properties are all "value" or "metadata".
	PayloadAuto PayloadMode = iota
	// PayloadBare treats the body as the value itself.
	PayloadBare
	// PayloadWrapped expects {"value": ..., "metadata": {...}}.
	PayloadWrapped
)

// MetadataMode selects whether success bodies carry metadata.
type MetadataMode uint8

const (
	// MetadataAlways wraps success values and writes body metadata.
	MetadataAlways MetadataMode = iota
	// MetadataErrorsOnly writes bare success values; metadata only
	// accompanies problem details.
	MetadataErrorsOnly
)

// ValidationFormat selects the "errors" shape of 400 and 422 responses.
type ValidationFormat uint8

const (
	// ValidationRich writes the errors array with a target on every error.
	ValidationRich ValidationFormat = iota
	// ValidationCompatible writes {"target": ["message"]} plus an
	// "errorDetails" array, the shape ASP.NET Core clients expect.
	ValidationCompatible
)

// ProblemDetails are the RFC 9457 members written for failed results.
type ProblemDetails struct {
	Type     string
	Title    string
	Status   int
	Detail   string
	Instance string
}

type writeOptions struct {
	metadataMode   MetadataMode
	validation     ValidationFormat
	firstWins      bool
	problemDetails func(errs results.Errors, md metadata.Object) ProblemDetails
	codec          codec.Codec
}

// WriteOption configures a Writer.
type WriteOption func(*writeOptions)

// WithMetadataMode sets whether success bodies carry metadata.
func WithMetadataMode(m MetadataMode) WriteOption {
	return func(o *writeOptions) { o.metadataMode = m }
}

// WithValidationFormat sets the errors shape of validation responses.
func WithValidationFormat(f ValidationFormat) WriteOption {
	return func(o *writeOptions) { o.validation = f }
}

// WithFirstCategoryLeading makes the first error's category decide the
// response status. By default the status comes from the category shared by
// all errors, or 500 if they differ.
func WithFirstCategoryLeading(firstWins bool) WriteOption {
	return func(o *writeOptions) { o.firstWins = firstWins }
}

// WithProblemDetails replaces the default problem details factory.
func WithProblemDetails(fn func(errs results.Errors, md metadata.Object) ProblemDetails) WriteOption {
	return func(o *writeOptions) { o.problemDetails = fn }
}

// WithWriteCodec sets the codec used to encode success values.
// If nil is passed, codec.Default is used.
func WithWriteCodec(c codec.Codec) WriteOption {
	return func(o *writeOptions) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

type readOptions struct {
	payload          PayloadMode
	problemAsFailure bool
	headers          []string
	mergeStrategy    metadata.MergeStrategy
	codec            codec.Codec
}

// ReadOption configures a Reader.
type ReadOption func(*readOptions)

// WithSuccessPayload sets how success bodies carrying a value are read.
func WithSuccessPayload(m PayloadMode) ReadOption {
	return func(o *readOptions) { o.payload = m }
}

// WithProblemDetailsAsFailure controls whether an application/problem+json
// body marks a 2xx response as failed. It does by default.
func WithProblemDetailsAsFailure(enabled bool) ReadOption {
	return func(o *readOptions) { o.problemAsFailure = enabled }
}

// WithHeaders lists the response headers read into metadata. Each header
// becomes a metadata entry under the given name, annotated with
// metadata.SerializeInHTTPHeader.
func WithHeaders(names ...string) ReadOption {
	return func(o *readOptions) { o.headers = append(o.headers, names...) }
}

// WithMergeStrategy sets how header metadata combines with body metadata.
// Header metadata is the incoming side.
func WithMergeStrategy(s metadata.MergeStrategy) ReadOption {
	return func(o *readOptions) { o.mergeStrategy = s }
}

// WithReadCodec sets the codec used to decode success values.
// If nil is passed, codec.Default is used.
func WithReadCodec(c codec.Codec) ReadOption {
	return func(o *readOptions) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

func defaultWriteOptions() writeOptions {
	return writeOptions{
		metadataMode: MetadataAlways,
		validation:   ValidationRich,
		codec:        codec.Default,
	}
}

func defaultReadOptions() readOptions {
	return readOptions{
		payload:          PayloadAuto,
		problemAsFailure: true,
		mergeStrategy:    metadata.AddOrReplace,
		codec:            codec.Default,
	}
}
