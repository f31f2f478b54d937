package widget_test

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/esim-device-finder/internal/airalo"
	"github.com/donaldgifford/esim-device-finder/internal/i18n"
	"github.com/donaldgifford/esim-device-finder/internal/widget"
)

// dataIsland extracts the JSON body of the payload script element.
func dataIsland(t *testing.T, html string) string {
	t.Helper()
	start := strings.Index(html, `id="`+widget.DataIslandID+`"`)
	require.GreaterOrEqual(t, start, 0, "data island missing")
	open := strings.Index(html[start:], ">")
	require.GreaterOrEqual(t, open, 0)
	body := html[start+open+1:]
	end := strings.Index(body, "</script>")
	require.GreaterOrEqual(t, end, 0)
	return body[:end]
}

func TestWidget_Render(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := widget.Widget(sampleCatalog, i18n.MustLoad("en"), widget.DefaultOptions()).
		Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `<input type="text" id="busqueda" placeholder="Search for your phone or tablet...">`)
	assert.Contains(t, html, `<ul id="resultados"></ul>`)
	assert.Contains(t, html, `type="application/json"`)
	assert.Contains(t, html, "addEventListener('input'")

	var payload widget.Payload
	require.NoError(t, json.Unmarshal([]byte(dataIsland(t, html)), &payload))
	require.Len(t, payload.Devices, 2)
	assert.Equal(t, "iPhone 12", payload.Devices[0].Name)
	assert.Equal(t, 2, payload.MinQueryLength)
	assert.Equal(t, 15, payload.MaxResults)
	assert.Equal(t, "Showing 15 of", payload.ShowingPrefix)
	assert.Equal(t, "results...", payload.ShowingSuffix)
}

func TestWidget_PayloadCannotBreakOutOfScript(t *testing.T) {
	t.Parallel()

	devices := []airalo.Device{
		{Name: `</script><script>alert(1)</script>`, Brand: "Evil", Model: "X"},
	}

	var buf bytes.Buffer
	require.NoError(t, widget.Widget(devices, i18n.MustLoad("en"), widget.DefaultOptions()).
		Render(context.Background(), &buf))

	html := buf.String()
	assert.NotContains(t, html, "<script>alert(1)")

	var payload widget.Payload
	require.NoError(t, json.Unmarshal([]byte(dataIsland(t, html)), &payload))
	assert.Equal(t, devices[0].Name, payload.Devices[0].Name)
}

func TestWidget_PlaceholderEscaped(t *testing.T) {
	t.Parallel()

	m := i18n.MustLoad("en")
	m.Placeholder = `Search "phones" & tablets`

	var buf bytes.Buffer
	require.NoError(t, widget.Widget(nil, m, widget.DefaultOptions()).
		Render(context.Background(), &buf))

	assert.Contains(t, buf.String(), `placeholder="Search &#34;phones&#34; &amp; tablets"`)
	assert.Contains(t, dataIsland(t, buf.String()), `"devices":[]`)
}

func TestMessage_Render(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, widget.Message("No <b>devices</b>").Render(context.Background(), &buf))
	assert.Equal(t, "<p>No &lt;b&gt;devices&lt;/b&gt;</p>", buf.String())
}

func TestWidget_ScriptReadsEveryPayloadField(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := widget.Widget(sampleCatalog, i18n.MustLoad("en"), widget.DefaultOptions()).
		Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	script := html[strings.LastIndex(html, "<script>"):]
	assert.Contains(t, script, "getElementById('"+widget.DataIslandID+"')")
	assert.Contains(t, script, "JSON.parse(island.textContent)")
	assert.Contains(t, script, "toLowerCase()")
	assert.Contains(t, script, "Array.from(query).length")

	typ := reflect.TypeFor[widget.Payload]()
	for i := range typ.NumField() {
		tag := strings.Split(typ.Field(i).Tag.Get("json"), ",")[0]
		assert.Contains(t, script, "cfg."+tag, "script ignores payload field %s", tag)
	}
}
