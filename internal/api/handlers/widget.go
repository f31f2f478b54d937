package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/esim-device-finder/internal/engine"
)

// WidgetStateHeader carries the final embed state of a widget response.
const WidgetStateHeader = "X-Widget-State"

// WidgetRenderer renders the embeddable widget.
type WidgetRenderer interface {
	RenderHTML(ctx context.Context, w io.Writer) (engine.Outcome, error)
}

// WidgetHandler serves the widget fragment.
type WidgetHandler struct {
	renderer WidgetRenderer
}

// NewWidgetHandler creates a new WidgetHandler.
func NewWidgetHandler(r WidgetRenderer) *WidgetHandler {
	return &WidgetHandler{renderer: r}
}

// Fragment returns the embeddable markup. An unavailable upstream still
// yields 200 with the localized notice, so a host page can inline the
// response as-is.
func (h *WidgetHandler) Fragment(c echo.Context) error {
	var buf bytes.Buffer
	out, err := h.renderer.RenderHTML(c.Request().Context(), &buf)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "rendering widget").SetInternal(err)
	}

	c.Response().Header().Set(WidgetStateHeader, out.State.String())
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.HTML(http.StatusOK, buf.String())
}

const pageHead = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>eSIM compatible devices</title>
</head>
<body>
`

const pageTail = `
</body>
</html>`

// Page wraps the fragment in a minimal standalone document, for trying the
// widget without a host page.
func (h *WidgetHandler) Page(c echo.Context) error {
	var buf bytes.Buffer
	buf.WriteString(pageHead)
	out, err := h.renderer.RenderHTML(c.Request().Context(), &buf)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "rendering widget").SetInternal(err)
	}
	buf.WriteString(pageTail)

	c.Response().Header().Set(WidgetStateHeader, out.State.String())
	return c.HTML(http.StatusOK, buf.String())
}
