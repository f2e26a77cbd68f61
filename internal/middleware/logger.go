package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/somnus-app/backend/internal/logger"
)

// RequestLogger assigns every request a correlation ID (honoring an
// incoming X-Request-ID) and logs method, path, status, and latency.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Set("request_id", logger.RequestIDFromContext(ctx))
		c.Header("X-Request-ID", logger.RequestIDFromContext(ctx))
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log := logger.Ctx(c.Request.Context())
		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", status),
			logger.Duration("latency", latency),
		}
		if status >= 500 {
			log.Error("request failed", fields...)
		} else {
			log.Info("request completed", fields...)
		}
	}
}
