package main

import "errors"

// KnownMetrics is the set of metric names exported by esim-device-finder
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"edf_http_request_duration_seconds":        true,
	"edf_http_request_duration_seconds_bucket": true,
	"edf_http_requests_total":                  true,

	// Health metrics.
	"edf_healthz_up": true,
	"edf_readyz_up":  true,

	// Partner API metrics.
	"edf_upstream_requests_total":                  true,
	"edf_upstream_request_duration_seconds":        true,
	"edf_upstream_request_duration_seconds_bucket": true,
	"edf_upstream_failures_total":                  true,

	// Token cache metrics.
	"edf_token_cache_lookups_total": true,

	// Catalog and widget metrics.
	"edf_catalog_devices":           true,
	"edf_catalog_truncations_total": true,
	"edf_widget_renders_total":      true,

	// Recording rules.
	"edf:http_requests:rate5m":       true,
	"edf:http_errors:rate5m":         true,
	"edf:upstream_failures:rate5m":   true,
	"edf:widget_renders:rate5m":      true,
	"edf:widget_unavailable:rate5m":  true,
	"edf:token_cache_misses:rate5m":  true,
	"edf:token_cache_lookups:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
