// Package middleware provides Echo middleware for esim-device-finder.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/esim-device-finder/internal/metrics"
)

// metricsSkipPaths are excluded from the request histogram and counter.
var metricsSkipPaths = map[string]struct{}{
	"/metrics": {},
	"/healthz": {},
	"/readyz":  {},
}

// healthGauges maps probe paths to their up/down gauge.
var healthGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

// Metrics returns Echo middleware that records request duration and status.
// Operational paths (/metrics, /healthz, /readyz) are excluded from
// histogram and counter metrics. Probe paths update simple up/down gauges.
// Metric labels use the route pattern, not the raw URL.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			if _, skip := metricsSkipPaths[path]; skip {
				updateHealthGauge(path, status)
				return nil
			}

			duration := time.Since(start).Seconds()
			statusStr := strconv.Itoa(status)
			method := c.Request().Method

			metrics.HTTPRequestDuration.
				WithLabelValues(method, path, statusStr).
				Observe(duration)
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, path, statusStr).
				Inc()

			return nil
		}
	}
}

// updateHealthGauge sets the gauge for a probe path to 1 (success) or 0 (failure).
func updateHealthGauge(path string, status int) {
	gauge, ok := healthGauges[path]
	if !ok {
		return
	}

	if status >= 200 && status < 300 {
		gauge.Set(1)
	} else {
		gauge.Set(0)
	}
}
