// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/esim-device-finder/tools/dashgen/panels"
)

// BuildOverview constructs the EDF Overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("EDF Overview").
		Uid("edf-overview").
		Tags([]string{"edf", "esim-device-finder"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.CatalogDevicesStat()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Partner API.
	b.WithRow(dashboard.NewRowBuilder("Partner API").
		WithPanel(panels.UpstreamRequestRate()).
		WithPanel(panels.UpstreamLatency()).
		WithPanel(panels.UpstreamFailures()))

	// Row 4: Widget.
	b.WithRow(dashboard.NewRowBuilder("Widget").
		WithPanel(panels.WidgetRenders()).
		WithPanel(panels.TokenCacheHitRatio()).
		WithPanel(panels.CatalogTruncations()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
