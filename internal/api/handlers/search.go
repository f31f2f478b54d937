package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/esim-device-finder/internal/engine"
)

// DeviceSearcher applies the widget filter to the catalog.
type DeviceSearcher interface {
	Search(ctx context.Context, query string) (engine.SearchResult, error)
}

// SearchHandler runs the widget filter server-side.
type SearchHandler struct {
	searcher DeviceSearcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(s DeviceSearcher) *SearchHandler {
	return &SearchHandler{searcher: s}
}

// SearchInput is the query for the search endpoint.
type SearchInput struct {
	Query string `query:"q" doc:"Substring to look for in device name, brand or model" example:"iphone"`
}

// DeviceResult is one matching device.
type DeviceResult struct {
	Name  string `json:"name" example:"iPhone 12"`
	Brand string `json:"brand" example:"Apple"`
	Model string `json:"model" example:"A2403"`
}

// SearchOutput is the response body for the search endpoint.
type SearchOutput struct {
	Body struct {
		Query   string         `json:"query" doc:"Query as received"`
		Total   int            `json:"total" doc:"Number of matching devices"`
		Devices []DeviceResult `json:"devices" doc:"Matching devices, capped at the widget result limit"`
		Lines   []string       `json:"lines" doc:"Result lines exactly as the widget renders them"`
	}
}

// Search filters the catalog the way the widget does.
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	res, err := h.searcher.Search(ctx, input.Query)
	if err != nil {
		var searchErr *engine.SearchError
		switch {
		case !errors.As(err, &searchErr):
			return nil, huma.Error500InternalServerError("search failed", err)
		case engine.IsAuthFailure(err):
			return nil, huma.Error503ServiceUnavailable(searchErr.Message)
		default:
			return nil, huma.Error502BadGateway(searchErr.Message)
		}
	}

	out := &SearchOutput{}
	out.Body.Query = input.Query
	out.Body.Total = res.State.Total
	out.Body.Devices = make([]DeviceResult, 0, len(res.State.Matches))
	for _, d := range res.State.Matches {
		out.Body.Devices = append(out.Body.Devices, DeviceResult{Name: d.Name, Brand: d.Brand, Model: d.Model})
	}
	out.Body.Lines = res.Lines
	return out, nil
}

// RegisterSearchRoutes registers search endpoints with the Huma API.
func RegisterSearchRoutes(api huma.API, h *SearchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "search-devices",
		Method:      http.MethodGet,
		Path:        "/api/v1/devices/search",
		Summary:     "Search compatible devices",
		Description: "Filters the compatible-device catalog by case-insensitive substring on name, brand or model, with the same thresholds as the widget.",
		Tags:        []string{"devices"},
		Errors:      []int{http.StatusBadGateway, http.StatusServiceUnavailable},
	}, h.Search)
}
