package middleware

import (
	"runtime"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/dataresource/http/server"
	"github.com/rise-and-shine/dataresource/observability/logger"
)

const stackTraceSize = 4096

// NewRecoveryMW creates a middleware that recovers from panics in the request
// handling chain and converts them to structured errors.
func NewRecoveryMW(logger logger.Logger) server.Middleware {
	return server.Middleware{
		Priority: server.PriorityRecovery,
		Handler: func(c *fiber.Ctx) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = panicError("panic recovered", r)
					logger.Named("middleware.recovery").
						WithContext(c.UserContext()).
						Errorx(err)
				}
			}()

			return c.Next()
		},
	}
}

func panicError(msg string, r any) error {
	stackTrace := make([]byte, stackTraceSize)
	stackTrace = stackTrace[:runtime.Stack(stackTrace, false)]

	return errx.New(msg, errx.WithDetails(errx.D{
		"stack_trace":   string(stackTrace),
		"panic_message": r,
	}))
}
