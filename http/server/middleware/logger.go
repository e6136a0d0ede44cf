package middleware

import (
	"time"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/dataresource/http/server"
	"github.com/rise-and-shine/dataresource/observability/logger"
)

// NewLoggerMW creates a middleware that logs HTTP requests and responses.
// The level follows the status code: info below 400, warn for 4xx and error for 5xx.
func NewLoggerMW(log logger.Logger) server.Middleware {
	named := log.Named("middleware.logger")

	return server.Middleware{
		Priority: server.PriorityLogger,
		Handler: func(c *fiber.Ctx) error {
			start := time.Now()

			err := handleWithRecovery(c)

			statusCode := c.Response().StatusCode()
			if err != nil && statusCode < fiber.StatusBadRequest {
				// the error handler runs later in the chain and has not set the status yet
				statusCode = errorStatus(err)
			}

			l := named.WithContext(c.UserContext()).With(
				"http_status_code", statusCode,
				"http_method", c.Method(),
				"http_path", c.Path(),
				"http_route", c.Route().Path,
				"duration", time.Since(start),
				"query_params", c.Queries(),
				"request_size", c.Request().Header.ContentLength(),
			)

			switch {
			case err == nil && statusCode >= fiber.StatusBadRequest:
				l.Warn("request rejected")
			case statusCode >= fiber.StatusInternalServerError:
				l.Errorx(err)
			case statusCode >= fiber.StatusBadRequest:
				l.Warnx(err)
			default:
				l.Info("request processed successfully")
			}

			return err
		},
	}
}

// handleWithRecovery executes the next middleware and recovers from panics.
func handleWithRecovery(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError("panic recovered at logger middleware", r)
		}
	}()

	return c.Next()
}

func errorStatus(err error) int {
	switch errx.GetType(err) {
	case errx.T_Validation:
		return fiber.StatusBadRequest
	case errx.T_NotFound:
		return fiber.StatusNotFound
	case errx.T_Conflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
