package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UnmatchedRoute keys requests that no registered route handled.
const UnmatchedRoute = "unmatched"

// RoutePath returns the route pattern that served c, never the raw path, so
// metric keys stay bounded for /api/:moduleName/:fnName.
func RoutePath(c *fiber.Ctx) string {
	route := c.Route()
	if route == nil || route.Path == "" || len(route.Handlers) == 0 {
		return UnmatchedRoute
	}
	return route.Path
}

// RequestLogger logs each request and records it in metrics.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		metrics.RecordRequest(RoutePath(c), c.Method(), status, latency)
		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.IP()),
		)
		return err
	}
}
