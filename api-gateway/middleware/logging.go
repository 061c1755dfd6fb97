package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kh199/add-product-to-order/pkg/logger"
)

// StructuredLoggingMiddleware provides structured logging for gateway requests
func StructuredLoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get("X-Request-Id")

		err := c.Next()

		duration := time.Since(start)
		statusCode := c.Response().StatusCode()

		logEvent := logger.Logger.Info()
		if statusCode >= 500 {
			logEvent = logger.Logger.Error()
		} else if statusCode >= 400 {
			logEvent = logger.Logger.Warn()
		}

		logEvent.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("request_id", requestID).
			Msg("Gateway request completed")

		return err
	}
}
