package pipeline

import (
	"github.com/rcrowley/go-metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Config struct {
	// MaxMetadataBytes caps the serialized metadata row. 0 disables the check.
	MaxMetadataBytes int `yaml:"max_metadata_bytes" default:"4194304" validate:"min=0"`
}

type options struct {
	metrics metrics.Registry
	tracer  trace.Tracer
}

type Option func(*options)

// WithMetrics records per state counters and commit timings in r.
func WithMetrics(r metrics.Registry) Option {
	return func(o *options) { o.metrics = r }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

func defaultOptions() options {
	return options{
		metrics: metrics.DefaultRegistry,
		tracer:  otel.Tracer("dataresource/pipeline"),
	}
}
