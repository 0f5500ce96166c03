package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/auth"
	apperrors "github.com/davydocsurg/techinnover-ecommerce-api/pkg/util/errorutil"
)

// RequestLogger logs one line per request and records request metrics.
// Errors returned by downstream handlers are passed through unchanged; their
// status is derived the same way the error middleware will render it.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			status = apperrors.ToDomainError(err).HTTPStatus
		}
		metrics.RecordRequest(RouteLabel(c), c.Method(), status, latency)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.IP()),
		}
		if identity, ok := auth.IdentityFromContext(c); ok {
			fields = append(fields, zap.String("user_id", identity.UserID))
		}
		if status >= fiber.StatusInternalServerError {
			logger.Warn("request completed", fields...)
		} else {
			logger.Info("request completed", fields...)
		}
		return err
	}
}

// RouteLabel returns the matched route pattern for metric labels, keeping
// path parameters out of label values.
func RouteLabel(c *fiber.Ctx) string {
	route := c.Route().Path
	if route == "" || route == "/" {
		return "unmatched"
	}
	return route
}
