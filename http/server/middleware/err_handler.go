package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/dataresource/http/server"
)

// NewErrorHandlerMW creates a middleware that converts handler errors to
// standardized JSON responses. Traces and details are included unless
// hideDetails is set.
func NewErrorHandlerMW(hideDetails bool) server.Middleware {
	return server.Middleware{
		Priority: server.PriorityErrorHandler,
		Handler: func(c *fiber.Ctx) error {
			err := c.Next()
			if err == nil {
				return nil
			}

			// if error already handled, skip processing.
			if c.Response() != nil && c.Response().StatusCode() >= fiber.StatusBadRequest {
				return err
			}

			return server.WriteErrorResponse(c, err, hideDetails)
		},
	}
}
