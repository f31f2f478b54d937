package widget

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/donaldgifford/esim-device-finder/internal/airalo"
	"github.com/donaldgifford/esim-device-finder/internal/i18n"
)

// Element IDs used by the markup and the client script.
const (
	ContainerID  = "buscador-dispositivos"
	InputID      = "busqueda"
	ResultsID    = "resultados"
	DataIslandID = "buscador-dispositivos-data"
)

// Payload is the JSON handed to the client script.
type Payload struct {
	Devices        []airalo.Device `json:"devices"`
	MinQueryLength int             `json:"minQueryLength"`
	MaxResults     int             `json:"maxResults"`
	ShowingPrefix  string          `json:"showingPrefix"`
	ShowingSuffix  string          `json:"showingSuffix"`
}

// NewPayload builds the client payload for devices.
func NewPayload(devices []airalo.Device, m i18n.Messages, opts Options) Payload {
	opts = opts.withDefaults()
	if devices == nil {
		devices = []airalo.Device{}
	}
	return Payload{
		Devices:        devices,
		MinQueryLength: opts.MinQueryLength,
		MaxResults:     opts.MaxResults,
		ShowingPrefix:  m.Showing(opts.MaxResults),
		ShowingSuffix:  m.ShowingSuffix,
	}
}

// Widget renders the search input, the empty result list, the JSON data
// island and the client script.
func Widget(devices []airalo.Device, m i18n.Messages, opts Options) templ.Component {
	payload := NewPayload(devices, m, opts)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<div id="%s"><input type="text" id="%s" placeholder="%s"><ul id="%s"></ul></div>`,
			ContainerID, InputID, templ.EscapeString(m.Placeholder), ResultsID,
		); err != nil {
			return err
		}

		if err := templ.JSONScript(DataIslandID, payload).Render(ctx, w); err != nil {
			return fmt.Errorf("rendering device payload: %w", err)
		}

		_, err := io.WriteString(w, "<script>"+clientScript+"</script>")
		return err
	})
}

// Message renders a single localized notice in place of the widget.
func Message(text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>"+templ.EscapeString(text)+"</p>")
		return err
	})
}
