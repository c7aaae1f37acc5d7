package middlewares

import (
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger logs every request; quiet paths (scrapes, health checks) go to debug.
func ZapLogger(l *zap.Logger, quietPaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		uri := c.Request.RequestURI

		c.Next()

		level := zapcore.InfoLevel
		if slices.Contains(quietPaths, path) {
			level = zapcore.DebugLevel
		}
		if ce := l.Check(level, "http_request"); ce != nil {
			ce.Write(
				zap.String("method", method),
				zap.String("uri", uri),
				zap.Int("status", c.Writer.Status()),
				zap.Int("size", max(c.Writer.Size(), 0)),
				zap.Duration("duration", time.Since(start)),
			)
		}
	}
}
