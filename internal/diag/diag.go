// Package diag reports partner API failures to the structured log and to
// Prometheus.
package diag

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/donaldgifford/esim-device-finder/internal/airalo"
	"github.com/donaldgifford/esim-device-finder/internal/metrics"
)

// maxLoggedBody caps how much of an upstream body ends up in a log line.
const maxLoggedBody = 4096

// Sink implements airalo.Diagnostics.
type Sink struct {
	log *slog.Logger
}

// NewSink creates a Sink logging to log.
func NewSink(log *slog.Logger) *Sink {
	if log == nil {
		log = slog.Default()
	}
	return &Sink{log: log}
}

// ReportFailure logs f at error level and counts it.
func (s *Sink) ReportFailure(ctx context.Context, f airalo.Failure) {
	kind := airalo.KindLabel(f.Kind)
	metrics.UpstreamFailuresTotal.WithLabelValues(f.Operation, kind).Inc()

	attrs := []any{
		"operation", f.Operation,
		"kind", kind,
	}
	if f.StatusCode != 0 {
		attrs = append(attrs, "status", f.StatusCode)
	}
	if f.Err != nil {
		attrs = append(attrs, "error", f.Err)
	}
	if f.Body != "" {
		attrs = append(attrs, "response_body", truncate(f.Body, maxLoggedBody))
	}

	s.log.ErrorContext(ctx, "partner API request failed", attrs...)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "...(truncated)"
}
