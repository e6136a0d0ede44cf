package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/dataresource/http/server"
	"github.com/rise-and-shine/dataresource/meta"
)

// NewMetaInjectMW creates a middleware that injects request metadata into the
// request context. The trace ID set by the tracing middleware is kept.
func NewMetaInjectMW() server.Middleware {
	return server.Middleware{
		Priority: server.PriorityMetaInject,
		Handler: func(c *fiber.Ctx) error {
			ctx := c.UserContext()

			traceID := meta.Find(ctx, meta.TraceID)
			if traceID == "" {
				traceID = getTraceID(ctx)
				c.Set(headerTraceID, traceID)
			}

			ctx = meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{
				meta.TraceID:   traceID,
				meta.IPAddress: c.IP(),
				meta.UserAgent: c.Get(fiber.HeaderUserAgent),
			})
			ctx = meta.InjectMetaToContext(ctx, meta.CurrentService().Values())
			c.SetUserContext(ctx)

			return c.Next()
		},
	}
}
