// Package client provides a thin HTTP client for the esim-device-finder API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client is a thin HTTP client for the esim-device-finder API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client targeting the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Device is one matching device in a search result.
type Device struct {
	Name  string `json:"name"`
	Brand string `json:"brand"`
	Model string `json:"model"`
}

// SearchResult is the search endpoint response.
type SearchResult struct {
	Query   string   `json:"query"`
	Total   int      `json:"total"`
	Devices []Device `json:"devices"`
	Lines   []string `json:"lines"`
}

// SearchDevices runs the widget filter on the server.
func (c *Client) SearchDevices(ctx context.Context, query string) (*SearchResult, error) {
	var res SearchResult
	path := "/api/v1/devices/search?q=" + url.QueryEscape(query)
	if _, err := c.do(ctx, http.MethodGet, path, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ClearToken drops the server's cached access token.
func (c *Client) ClearToken(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/token", nil)
	return err
}

// Widget fetches the widget fragment and the embed state the server reported.
func (c *Client) Widget(ctx context.Context) (html, state string, err error) {
	resp, err := c.do(ctx, http.MethodGet, "/widget", nil)
	if err != nil {
		return "", "", err
	}
	return string(resp.body), resp.header.Get("X-Widget-State"), nil
}

type response struct {
	header http.Header
	body   []byte
}

func (c *Client) do(ctx context.Context, method, path string, dst any) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, fmt.Errorf("API server not running at %s", c.baseURL)
		}
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("API error (HTTP %d): %s", resp.StatusCode, apiErrorDetail(respBody))
	}

	if dst != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, dst); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
	}

	return &response{header: resp.Header, body: respBody}, nil
}

// apiErrorDetail extracts the detail of a problem+json body, falling back
// to the raw body.
func apiErrorDetail(body []byte) string {
	var problem struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &problem); err == nil && problem.Detail != "" {
		return problem.Detail
	}
	return string(body)
}

func isConnectionRefused(err error) bool {
	return strings.Contains(err.Error(), "connection refused")
}
