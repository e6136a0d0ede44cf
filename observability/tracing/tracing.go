// Package tracing installs the global OpenTelemetry tracer provider that the
// HTTP middleware, the commit pipeline and bun spans report to.
package tracing

import (
	"context"
	"net"
	"strconv"

	"github.com/code19m/errx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/rise-and-shine/dataresource/meta"
)

// InitGlobalTracer sets the global tracer provider and W3C propagators and
// returns the function that flushes and stops them. With cfg.Disable a no-op
// provider is installed and the returned function does nothing.
func InitGlobalTracer(ctx context.Context, cfg Config) (func() error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.Disable {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func() error { return nil }, nil
	}

	client := otlptracegrpc.NewClient(
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(net.JoinHostPort(cfg.ExporterHost, strconv.Itoa(cfg.ExporterPort))),
		otlptracegrpc.WithReconnectionPeriod(reconnectionPeriod),
		otlptracegrpc.WithTimeout(exportTimeout),
	)
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{
			"exporter_host": cfg.ExporterHost,
			"exporter_port": cfg.ExporterPort,
		}))
	}

	tp := NewProvider(cfg, sdktrace.NewBatchSpanProcessor(exporter,
		sdktrace.WithBatchTimeout(batchTimeout),
		sdktrace.WithMaxQueueSize(maxQueueSize),
		sdktrace.WithMaxExportBatchSize(maxExportBatchSize),
	))
	otel.SetTracerProvider(tp)

	return func() error { return shutdown(tp) }, nil
}

// NewProvider builds a provider sampling by cfg.SampleRate (parent based) that
// describes the running service and hands spans to processor.
func NewProvider(cfg Config, processor sdktrace.SpanProcessor) *sdktrace.TracerProvider {
	svc := meta.CurrentService()

	attrs := make([]attribute.KeyValue, 0, len(cfg.Tags)+2) //nolint:mnd // service name and version
	for k, v := range cfg.Tags {
		attrs = append(attrs, attribute.String(k, v))
	}
	attrs = append(attrs,
		semconv.ServiceNameKey.String(svc.Name),
		semconv.ServiceVersionKey.String(svc.Version),
	)

	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, attrs...)),
	)
}

func shutdown(tp *sdktrace.TracerProvider) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := tp.ForceFlush(ctx); err != nil {
		return errx.Wrap(err)
	}
	if err := tp.Shutdown(ctx); err != nil {
		return errx.Wrap(err)
	}
	return nil
}
