package middleware

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/dataresource/http/server"
	"github.com/rise-and-shine/dataresource/meta"
)

const headerTraceID = "X-Trace-ID"

// NewTracingMW creates a middleware that starts an OpenTelemetry span for each
// request, continuing the trace of an incoming traceparent header. The span name is updated with the matched route once the handler ran.
func NewTracingMW() server.Middleware {
	return server.Middleware{
		Priority: server.PriorityTracing,
		Handler: func(c *fiber.Ctx) error {
			parent := otel.GetTextMapPropagator().Extract(c.UserContext(), headerCarrier{c})
			ctx, span := otel.Tracer("http-server").Start(
				parent,
				c.Method()+" /",
				trace.WithSpanKind(trace.SpanKindServer),
			)
			defer span.End()

			traceID := getTraceID(ctx)
			c.Set(headerTraceID, traceID)
			c.SetUserContext(meta.With(ctx, meta.TraceID, traceID))

			err := c.Next()

			routePattern := c.Route().Path
			if routePattern != "" && routePattern != "/" {
				span.SetName(fmt.Sprintf("%s %s", c.Method(), routePattern))
			}

			span.SetAttributes(
				attribute.String("http.request.method", c.Method()),
				attribute.String("http.route", routePattern),
				attribute.String("url.full", c.OriginalURL()),
				attribute.Int("http.response.status_code", c.Response().StatusCode()),
			)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}

			return err
		},
	}
}

// getTraceID returns the trace ID of the current span, or a new UUID when the
// context carries no sampled span.
func getTraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return uuid.NewString()
}

// headerCarrier adapts request and response headers to propagation.TextMapCarrier.
type headerCarrier struct {
	c *fiber.Ctx
}

var _ propagation.TextMapCarrier = headerCarrier{}

func (h headerCarrier) Get(key string) string { return h.c.Get(key) }

func (h headerCarrier) Set(key, value string) { h.c.Set(key, value) }

func (h headerCarrier) Keys() []string {
	keys := make([]string, 0, h.c.Request().Header.Len())
	h.c.Request().Header.VisitAll(func(k, _ []byte) {
		keys = append(keys, string(k))
	})
	return keys
}
