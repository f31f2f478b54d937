package airalo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultDevicesURL = DefaultBaseURL + "/compatible-devices"
	catalogOperation  = "compatible-devices"
)

// CatalogClient implements DeviceFetcher against the compatible-devices
// endpoint. It makes exactly one attempt per call and does not interpret
// HTTP status codes: a body without devices is an invalid response
// whatever the status.
type CatalogClient struct {
	devicesURL string
	client     *http.Client
	limiter    *RateLimiter
	diag       Diagnostics
}

// CatalogOption configures the CatalogClient.
type CatalogOption func(*CatalogClient)

// WithDevicesURL overrides the default compatible-devices endpoint.
func WithDevicesURL(u string) CatalogOption {
	return func(c *CatalogClient) {
		c.devicesURL = u
	}
}

// WithCatalogHTTPClient overrides the default HTTP client.
func WithCatalogHTTPClient(hc *http.Client) CatalogOption {
	return func(c *CatalogClient) {
		c.client = hc
	}
}

// WithCatalogRateLimiter routes catalog requests through r.
func WithCatalogRateLimiter(r *RateLimiter) CatalogOption {
	return func(c *CatalogClient) {
		c.limiter = r
	}
}

// WithCatalogDiagnostics sets the sink that receives catalog failures.
func WithCatalogDiagnostics(d Diagnostics) CatalogOption {
	return func(c *CatalogClient) {
		c.diag = d
	}
}

// NewCatalogClient creates a compatible-devices client.
func NewCatalogClient(opts ...CatalogOption) *CatalogClient {
	c := &CatalogClient{
		devicesURL: defaultDevicesURL,
		client:     NewHTTPClient(defaultTimeout),
		diag:       nopDiagnostics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type devicesResponse struct {
	Data []Device `json:"data"`
}

// FetchDevices retrieves the device list in API order. Every failure is
// reported to the diagnostics sink and returned as a *CatalogError.
func (c *CatalogClient) FetchDevices(ctx context.Context, token string) ([]Device, error) {
	ctx, span := tracer.Start(ctx, "airalo.FetchDevices")
	defer span.End()

	devices, status, body, err := c.fetch(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, KindLabel(err))
		var catErr *CatalogError
		if errors.As(err, &catErr) {
			c.diag.ReportFailure(ctx, Failure{
				Operation:  catalogOperation,
				Kind:       catErr.Kind,
				StatusCode: status,
				Body:       body,
				Err:        catErr.Err,
			})
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int("airalo.devices.count", len(devices)))
	return devices, nil
}

func (c *CatalogClient) fetch(
	ctx context.Context,
	token string,
) (devices []Device, status int, body string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.devicesURL, http.NoBody)
	if err != nil {
		return nil, 0, "", &CatalogError{
			Kind: ErrTransport,
			Err:  fmt.Errorf("creating devices request: %w", err),
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := roundTrip(ctx, c.client, c.limiter, catalogOperation, req)
	if err != nil {
		return nil, 0, "", &CatalogError{Kind: ErrTransport, Err: err}
	}

	var apiResp devicesResponse
	if err := json.Unmarshal(resp.body, &apiResp); err != nil {
		return nil, resp.status, string(resp.body), &CatalogError{
			Kind: ErrInvalidResponse,
			Err:  fmt.Errorf("parsing devices response: %w", err),
		}
	}

	if len(apiResp.Data) == 0 {
		return nil, resp.status, string(resp.body), &CatalogError{
			Kind: ErrInvalidResponse,
			Err:  fmt.Errorf("no devices in response (status %d)", resp.status),
		}
	}

	return apiResp.Data, resp.status, "", nil
}
