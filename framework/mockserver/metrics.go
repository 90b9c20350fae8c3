package mockserver

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const routeKey = "mockserver.route"

const (
	routeUnmatched = "unmatched"
	routeAdmin     = "admin"
	routeStatic    = "static"
)

// serverMetrics uses a registry per Server so that parallel test runs never share counters.
type serverMetrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newServerMetrics() *serverMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &serverMetrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mock_requests_total",
			Help: "Requests served by the mock server",
		}, []string{"route", "method", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mock_request_duration_seconds",
			Help:    "Mock server request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

func (m *serverMetrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.GetString(routeKey)
		if route == "" {
			route = routeAdmin
		}
		m.duration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
