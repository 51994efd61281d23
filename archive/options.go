package archive

import (
	"github.com/hupe1980/results"
	"github.com/hupe1980/results/compress"
	"github.com/hupe1980/results/resource"
)

// DefaultPrefix is the blob name prefix used when none is configured.
const DefaultPrefix = "envelopes"

type options struct {
	codec   compress.Codec
	rc      *resource.Controller
	logger  *results.Logger
	metrics results.MetricsCollector
	prefix  string
	index   Index
}

// Option configures an Archive.
type Option func(*options)

// WithCompression sets the coding for new frames.
// If nil is passed, frames are stored uncompressed.
func WithCompression(c compress.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = compress.NoopCodec{}
		}
		o.codec = c
	}
}

// WithController bounds batch concurrency, in-flight bytes, and I/O rate.
func WithController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithLogger sets the logger. Nil keeps the no-op logger.
func WithLogger(l *results.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the metrics collector. Nil keeps the no-op collector.
func WithMetrics(mc results.MetricsCollector) Option {
	return func(o *options) {
		if mc != nil {
			o.metrics = mc
		}
	}
}

// WithPrefix sets the blob name prefix. An empty prefix stores frames at the
// root of the store.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithIndex records every put in idx.
func WithIndex(idx Index) Option {
	return func(o *options) {
		o.index = idx
	}
}

func defaultOptions() options {
	return options{
		codec:   compress.NoopCodec{},
		logger:  results.NoopLogger(),
		metrics: results.NoopMetricsCollector{},
		prefix:  DefaultPrefix,
	}
}
