package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// UpstreamRequestRate returns a timeseries panel showing partner API calls
// per second by endpoint and status.
func UpstreamRequestRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Partner API Calls").
		Description("Airalo partner API requests per second by endpoint and status").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			"sum(rate(" + Series("upstream_requests_total") + "[5m])) by (endpoint, status)",
			"{{endpoint}} {{status}}", "A",
		)).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// UpstreamLatency returns a timeseries panel showing p95 partner API
// latency by endpoint.
func UpstreamLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Partner API Latency p95").
		Description("95th percentile partner API request duration by endpoint").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			Quantile(0.95, "upstream_request_duration_seconds", "endpoint"),
			"{{endpoint}}", "A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// UpstreamFailures returns a timeseries panel showing partner API failures
// by endpoint and failure kind.
func UpstreamFailures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Partner API Failures").
		Description("Failures per second by endpoint and kind (transport, invalid_response, missing_config)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			"sum(rate(" + Series("upstream_failures_total") + "[5m])) by (endpoint, kind)",
			"{{endpoint}} {{kind}}", "A",
		)).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenYellowRed(0.01, 0.1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}
