package mockserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// accessLog writes one entry per request: method, URL, status, route and latency.
func accessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Info("http_access",
			zap.String("method", c.Request.Method),
			zap.String("url", c.Request.URL.RequestURI()),
			zap.Int("status", c.Writer.Status()),
			zap.String("route", c.GetString(routeKey)),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
