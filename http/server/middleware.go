package server

import (
	"cmp"
	"slices"

	"github.com/gofiber/fiber/v2"
)

// Priorities of the stock middlewares. A higher priority runs earlier.
const (
	PriorityRecovery     = 1000
	PriorityTracing      = 900
	PriorityTimeout      = 800
	PriorityMetaInject   = 700
	PriorityLogger       = 500
	PriorityErrorHandler = 400
)

// Middleware is a fiber handler placed in the chain by Priority.
type Middleware struct {
	Priority int
	Handler  fiber.Handler
}

// applyMiddlewares mounts handlers by descending priority. Equal priorities
// keep their given order and nil handlers are skipped.
func applyMiddlewares(r fiber.Router, middlewares []Middleware) {
	ordered := slices.Clone(middlewares)
	slices.SortStableFunc(ordered, func(a, b Middleware) int {
		return cmp.Compare(b.Priority, a.Priority)
	})

	for _, mw := range ordered {
		if mw.Handler != nil {
			r.Use(mw.Handler)
		}
	}
}
