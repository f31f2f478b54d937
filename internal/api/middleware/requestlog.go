package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// probeLogState tracks, per probe path, whether the current run of
// successful responses has already been logged.
type probeLogState struct {
	mu     sync.Mutex
	logged map[string]bool
}

// shouldLog reports whether a probe response should be logged. Only the
// first success after startup or after a failure is logged.
func (p *probeLogState) shouldLog(path string, failed bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if failed {
		p.logged[path] = false
		return true
	}
	if p.logged[path] {
		return false
	}
	p.logged[path] = true
	return true
}

var probePaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestLog returns Echo middleware that logs requests with structured fields.
// It generates a request ID if none is provided and propagates it through
// the response header and echo context. Repeated successful probe requests
// are not logged; responses with status >= 400 are logged at WARN.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	probes := &probeLogState{logged: make(map[string]bool)}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)
			if err != nil {
				// Let the error handler write the response so the logged
				// status is the one the client sees.
				c.Error(err)
			}

			path := c.Request().URL.Path
			status := c.Response().Status
			failed := status >= 400

			if _, probe := probePaths[path]; probe && !probes.shouldLog(path, failed) {
				return nil
			}

			level := slog.LevelInfo
			if failed {
				level = slog.LevelWarn
			}

			log.Log(c.Request().Context(), level, "request",
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)

			return nil
		}
	}
}
