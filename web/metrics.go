package web

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var reqDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "chick_http_request_duration_seconds",
	Help:    "Duration of HTTP API requests",
	Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
}, []string{"method", "path", "code"})

func (s *Server) metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		reqDuration.WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(c.Response().Status)).
			Observe(time.Since(start).Seconds())
		return nil
	}
}
