package rules

// RecordingRules returns the pre-computed 5m rates the dashboard and the
// alerts read.
func RecordingRules() PrometheusRule {
	return newPrometheusRule("edf-recording-rules", "edf-recording",
		record("edf:http_requests:rate5m",
			`sum(rate(edf_http_requests_total[5m]))`),
		record("edf:http_errors:rate5m",
			`sum(rate(edf_http_requests_total{status=~"5.."}[5m]))`),
		record("edf:upstream_failures:rate5m",
			`sum(rate(edf_upstream_failures_total[5m])) by (endpoint, kind)`),
		record("edf:widget_renders:rate5m",
			`sum(rate(edf_widget_renders_total[5m]))`),
		record("edf:widget_unavailable:rate5m",
			`sum(rate(edf_widget_renders_total{state="unavailable"}[5m]))`),
		record("edf:token_cache_lookups:rate5m",
			`sum(rate(edf_token_cache_lookups_total[5m]))`),
		record("edf:token_cache_misses:rate5m",
			`sum(rate(edf_token_cache_lookups_total{result="miss"}[5m]))`),
	)
}
