package cloudevents

import (
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/results"
	"github.com/hupe1980/results/codec"
	"github.com/hupe1980/results/metadata"
)

// PayloadMode selects how the data of a successful generic result is read.
type PayloadMode uint8

const (
	// PayloadAuto treats data as wrapped when it is a non-empty object whose
	// properties are all "value" or "metadata", and as bare otherwise.
	PayloadAuto PayloadMode = iota
	// PayloadBare treats data as the value itself.
	PayloadBare
	// PayloadWrapped expects {"value": ..., "metadata": {...}}.
	PayloadWrapped
)

// String returns the configuration name of m.
func (m PayloadMode) String() string {
	switch m {
	case PayloadBare:
		return "bare"
	case PayloadWrapped:
		return "wrapped"
	default:
		return "auto"
	}
}

// ParsePayloadMode resolves a configuration name. The empty string is auto.
func ParsePayloadMode(s string) (PayloadMode, error) {
	switch s {
	case "", "auto":
		return PayloadAuto, nil
	case "bare":
		return PayloadBare, nil
	case "wrapped":
		return PayloadWrapped, nil
	}
	return PayloadAuto, attrErr("payload", "unknown payload mode "+s)
}

// MetadataMode controls whether result metadata travels in data.
type MetadataMode uint8

const (
	// MetadataAlways writes data-annotated metadata for every outcome.
	MetadataAlways MetadataMode = iota
	// MetadataErrorsOnly writes data-annotated metadata for failures only.
	MetadataErrorsOnly
)

// String returns the configuration name of m.
func (m MetadataMode) String() string {
	if m == MetadataErrorsOnly {
		return "errors-only"
	}
	return "always"
}

// ParseMetadataMode resolves a configuration name. The empty string is always.
func ParseMetadataMode(s string) (MetadataMode, error) {
	switch s {
	case "", "always":
		return MetadataAlways, nil
	case "errors-only":
		return MetadataErrorsOnly, nil
	}
	return MetadataAlways, attrErr("metadata_mode", "unknown metadata mode "+s)
}

type readOptions struct {
	payload       PayloadMode
	isFailureType func(string) bool
	parsing       AttributeParsingService
	mergeStrategy metadata.MergeStrategy
	codec         codec.Codec
	logger        *results.Logger
	metrics       results.MetricsCollector
}

// ReadOption configures a Reader.
type ReadOption func(*readOptions)

// WithSuccessPayload sets how generic success data is interpreted.
func WithSuccessPayload(m PayloadMode) ReadOption {
	return func(o *readOptions) { o.payload = m }
}

// WithFailureTypePredicate classifies envelopes without lroutcome by type.
func WithFailureTypePredicate(fn func(eventType string) bool) ReadOption {
	return func(o *readOptions) { o.isFailureType = fn }
}

// WithParsingService sets the service that turns extension attributes into
// result metadata. Passing nil disables the extension metadata merge.
func WithParsingService(svc AttributeParsingService) ReadOption {
	return func(o *readOptions) { o.parsing = svc }
}

// WithMergeStrategy sets how extension metadata and data metadata combine.
// Data metadata is the incoming side.
func WithMergeStrategy(s metadata.MergeStrategy) ReadOption {
	return func(o *readOptions) { o.mergeStrategy = s }
}

// WithReadCodec sets the codec used to decode success values.
//
// If nil is passed, codec.Default is used.
func WithReadCodec(c codec.Codec) ReadOption {
	return func(o *readOptions) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithReadLogger sets the logger.
func WithReadLogger(l *results.Logger) ReadOption {
	return func(o *readOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithReadMetrics sets the metrics collector.
func WithReadMetrics(mc results.MetricsCollector) ReadOption {
	return func(o *readOptions) {
		if mc != nil {
			o.metrics = mc
		}
	}
}

type writeOptions struct {
	source       string
	successType  string
	failureType  string
	subject      string
	dataSchema   string
	metadataMode MetadataMode
	conversion   AttributeConversionService
	codec        codec.Codec
	newID        func() string
	now          func() time.Time
	logger       *results.Logger
	metrics      results.MetricsCollector
}

// WriteOption configures a Writer.
type WriteOption func(*writeOptions)

// WithDefaultSource sets the source used when neither the call nor the
// metadata supplies one.
func WithDefaultSource(source string) WriteOption {
	return func(o *writeOptions) { o.source = source }
}

// WithDefaultTypes sets the event types used when neither the call nor the
// metadata supplies one.
func WithDefaultTypes(successType, failureType string) WriteOption {
	return func(o *writeOptions) {
		o.successType = successType
		o.failureType = failureType
	}
}

// WithDefaultSubject sets the fallback subject.
func WithDefaultSubject(subject string) WriteOption {
	return func(o *writeOptions) { o.subject = subject }
}

// WithDefaultDataSchema sets the fallback dataschema.
func WithDefaultDataSchema(schema string) WriteOption {
	return func(o *writeOptions) { o.dataSchema = schema }
}

// WithMetadataMode sets when data-annotated metadata is written.
func WithMetadataMode(m MetadataMode) WriteOption {
	return func(o *writeOptions) { o.metadataMode = m }
}

// WithConversionService sets the attribute conversion service.
//
// If nil is passed, the identity service is used.
func WithConversionService(svc AttributeConversionService) WriteOption {
	return func(o *writeOptions) {
		if svc == nil {
			svc = defaultConversionService
		}
		o.conversion = svc
	}
}

// WithWriteCodec sets the codec used to encode success values.
//
// If nil is passed, codec.Default is used.
func WithWriteCodec(c codec.Codec) WriteOption {
	return func(o *writeOptions) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithIDGenerator sets the generator for ids that are not supplied otherwise.
func WithIDGenerator(fn func() string) WriteOption {
	return func(o *writeOptions) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithClock sets the clock for time attributes that are not supplied otherwise.
func WithClock(now func() time.Time) WriteOption {
	return func(o *writeOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithWriteLogger sets the logger.
func WithWriteLogger(l *results.Logger) WriteOption {
	return func(o *writeOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWriteMetrics sets the metrics collector.
func WithWriteMetrics(mc results.MetricsCollector) WriteOption {
	return func(o *writeOptions) {
		if mc != nil {
			o.metrics = mc
		}
	}
}

func defaultWriteOptions() writeOptions {
	return writeOptions{
		metadataMode: MetadataAlways,
		conversion:   defaultConversionService,
		codec:        codec.Default,
		newID:        uuid.NewString,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       results.NoopLogger(),
		metrics:      results.NoopMetricsCollector{},
	}
}

func defaultReadOptions() readOptions {
	return readOptions{
		payload:       PayloadAuto,
		parsing:       defaultParsingService,
		mergeStrategy: metadata.AddOrReplace,
		codec:         codec.Default,
		logger:        results.NoopLogger(),
		metrics:       results.NoopMetricsCollector{},
	}
}
