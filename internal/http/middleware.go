// Package http provides the metrics HTTP server exposed by long-running batch
// commands.
package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// CustomLoggerMiddleware returns a Gin middleware that logs each request with
// the application slog logger instead of Gin's default writer.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.LogAttrs(c.Request.Context(), slog.LevelInfo, "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote_addr", c.ClientIP()),
		)
	}
}
