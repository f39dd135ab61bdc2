package http

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters live at package level so repeated server construction (tests,
// restarts within a process) does not re-register collectors.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kbd_http_requests_total",
		Help: "Total HTTP requests by method, path, and status code.",
	}, []string{"method", "path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kbd_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds by method and path.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})

	authFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kbd_auth_failures_total",
		Help: "Requests rejected by the shared-secret auth gate.",
	})
)

// Metrics records request-level instrumentation.
type Metrics struct{}

// NewMetrics returns the metrics recorder.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Middleware instruments every request with count and duration.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			// c.Path() is the route template, keeping cardinality bounded.
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			requestsTotal.WithLabelValues(
				c.Request().Method,
				path,
				strconv.Itoa(c.Response().Status),
			).Inc()
			requestDuration.WithLabelValues(c.Request().Method, path).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// AuthFailure counts a rejected request.
func (m *Metrics) AuthFailure() {
	authFailuresTotal.Inc()
}
