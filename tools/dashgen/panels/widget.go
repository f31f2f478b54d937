package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// WidgetRenders returns a timeseries panel showing widget renders by final
// state.
func WidgetRenders() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Widget Renders").
		Description("Widget renders per second by final state (rendered, unavailable)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			"sum(rate(" + Series("widget_renders_total") + "[5m])) by (state)",
			"{{state}}", "A",
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

// TokenCacheHitRatio returns a stat panel showing the share of token
// lookups served from cache.
func TokenCacheHitRatio() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Token Cache Hit %").
		Description("Share of token lookups served without a token request").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`(1 - edf:token_cache_misses:rate5m / edf:token_cache_lookups:rate5m) * 100`,
			"", "A",
		)).
		Unit("percent").
		Thresholds(ThresholdsRedGreen(90)).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// CatalogTruncations returns a stat panel counting catalog loads cut down
// to the device cap in the last 24 hours.
func CatalogTruncations() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Catalog Truncations (24h)").
		Description("Catalog loads that exceeded the device cap in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			"increase(" + Series("catalog_truncations_total") + "[24h])",
			"", "A",
		)).
		Thresholds(ThresholdsGreenYellowRed(1, 100)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}
