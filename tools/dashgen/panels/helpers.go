// Package panels builds the Grafana panels of the esim-device-finder
// overview dashboard.
package panels

import (
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/cog"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
)

// Panel sizes on Grafana's 24-column grid.
const (
	StatWidth  = 6
	StatHeight = 4

	TSWidth  = 12
	TSHeight = 8

	// ThirdWidth fits three panels in a row.
	ThirdWidth = 8
)

// Job is the scrape job every panel query selects on.
const Job = "esim-device-finder"

// Series returns the selector of an edf_ metric scoped to Job, with any
// extra label matchers appended.
func Series(name string, matchers ...string) string {
	labels := append([]string{fmt.Sprintf("job=%q", Job)}, matchers...)
	return fmt.Sprintf("edf_%s{%s}", name, strings.Join(labels, ", "))
}

// Quantile returns the q-quantile of an edf_ histogram over 5m, kept per
// label in by.
func Quantile(q float64, histogram string, by ...string) string {
	return fmt.Sprintf("histogram_quantile(%.2f, sum(rate(%s[5m])) by (%s))",
		q, Series(histogram+"_bucket"), strings.Join(append([]string{"le"}, by...), ", "))
}

// DSRef points a panel at the ${datasource} template variable.
func DSRef() dashboard.DataSourceRef {
	return dashboard.DataSourceRef{
		Type: cog.ToPtr("prometheus"),
		Uid:  cog.ToPtr("${datasource}"),
	}
}

// PromQuery builds a Prometheus query target.
func PromQuery(expr, legendFormat, refID string) *prometheus.DataqueryBuilder {
	return prometheus.NewDataqueryBuilder().
		Expr(expr).
		LegendFormat(legendFormat).
		RefId(refID)
}

// step is a threshold boundary; a nil value is the base step.
func step(value *float64, color string) dashboard.Threshold {
	return dashboard.Threshold{Value: value, Color: color}
}

func absolute(steps ...dashboard.Threshold) cog.Builder[dashboard.ThresholdsConfig] {
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps(steps)
}

// ThresholdsRedGreen is red below greenAbove and green from it. Used for
// up/down gauges and hit ratios.
func ThresholdsRedGreen(greenAbove float64) cog.Builder[dashboard.ThresholdsConfig] {
	return absolute(step(nil, "red"), step(&greenAbove, "green"))
}

// ThresholdsGreenYellowRed escalates at yellow and again at red.
func ThresholdsGreenYellowRed(yellow, red float64) cog.Builder[dashboard.ThresholdsConfig] {
	return absolute(step(nil, "green"), step(&yellow, "yellow"), step(&red, "red"))
}

// ThresholdsGreenOnly never changes color.
func ThresholdsGreenOnly() cog.Builder[dashboard.ThresholdsConfig] {
	return absolute(step(nil, "green"))
}

// ColorSchemeThresholds colors values by their threshold step.
func ColorSchemeThresholds() cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().
		Mode(dashboard.FieldColorModeIdThresholds)
}

// ColorSchemePaletteClassic gives each series its own palette color.
func ColorSchemePaletteClassic() cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().
		Mode(dashboard.FieldColorModeIdPaletteClassic)
}

// TableLegend renders the legend as a table under the graph with the given
// calculation columns.
func TableLegend(calcs ...string) *common.VizLegendOptionsBuilder {
	return common.NewVizLegendOptionsBuilder().
		DisplayMode(common.LegendDisplayModeTable).
		Placement(common.LegendPlacementBottom).
		Calcs(calcs)
}

// MultiTooltip shows every series in the tooltip, largest first.
func MultiTooltip() *common.VizTooltipOptionsBuilder {
	return common.NewVizTooltipOptionsBuilder().
		Mode(common.TooltipDisplayModeMulti).
		Sort(common.SortOrderDescending)
}
