package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/dataresource/http/server"
)

// NewTimeoutMW creates a middleware that applies a timeout to the request context.
func NewTimeoutMW(duration time.Duration) server.Middleware {
	return server.Middleware{
		Priority: server.PriorityTimeout,
		Handler: func(c *fiber.Ctx) error {
			ctx, cancel := context.WithTimeout(c.UserContext(), duration)
			defer cancel()

			c.SetUserContext(ctx)

			return c.Next()
		},
	}
}
