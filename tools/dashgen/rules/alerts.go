package rules

// AlertRules returns the operational alerts for esim-device-finder.
func AlertRules() PrometheusRule {
	return newPrometheusRule("edf-alerts", "edf-alerts",
		alert("EdfDown",
			`absent(up{job="esim-device-finder"})`, "2m", severityCritical,
			"eSIM Device Finder is down",
			"The esim-device-finder job has been absent for more than 2 minutes."),
		alert("EdfCredentialsMissing",
			`edf_readyz_up == 0`, "2m", severityCritical,
			"eSIM Device Finder has no partner API credentials",
			"The readiness probe reports missing Airalo credentials; every widget renders as unavailable."),
		alert("EdfHighErrorRate",
			`edf:http_errors:rate5m / edf:http_requests:rate5m > 0.05`, "5m", severityWarning,
			"High HTTP error rate on eSIM Device Finder",
			"More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes."),
		alert("EdfWidgetUnavailable",
			`edf:widget_unavailable:rate5m / edf:widget_renders:rate5m > 0.5`, "10m", severityCritical,
			"Most widget renders are unavailable",
			"More than half of widget renders fell back to the unavailable notice for 10 minutes."),
		alert("EdfPartnerAPIFailures",
			`sum(edf:upstream_failures:rate5m) > 0`, "10m", severityWarning,
			"Airalo partner API requests are failing",
			"Token or compatible-devices requests have been failing for more than 10 minutes."),
		alert("EdfCatalogTruncated",
			`increase(edf_catalog_truncations_total[1h]) > 0`, "0m", severityInfo,
			"Device catalog exceeds the configured cap",
			"The compatible-devices list was truncated; raise catalog.max_devices if devices are missing from the widget."),
	)
}
