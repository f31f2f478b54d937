// Package airalo provides clients for the Airalo partner API: the OAuth2
// client-credentials token endpoint and the compatible-devices catalog. Both
// clients sit behind small interfaces so the embed service can be tested
// without a network.
package airalo

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

const (
	// DefaultBaseURL is the production partner API root.
	DefaultBaseURL = "https://partners-api.airalo.com/v2"

	defaultTimeout = 30 * time.Second
	instrumentName = "github.com/donaldgifford/esim-device-finder/internal/airalo"
)

var tracer = otel.Tracer(instrumentName)

// TokenFetcher exchanges client credentials for a bearer token.
type TokenFetcher interface {
	FetchToken(ctx context.Context, creds Credentials) (TokenGrant, error)
}

// DeviceFetcher retrieves the compatible-device list.
type DeviceFetcher interface {
	FetchDevices(ctx context.Context, token string) ([]Device, error)
}

// Failure describes a failed upstream call in enough detail to debug the
// partner API from logs alone.
type Failure struct {
	Operation  string // "token" or "compatible-devices"
	Kind       error  // ErrTransport, ErrInvalidResponse or ErrMissingConfig
	StatusCode int    // 0 when no response was received
	Body       string
	Err        error
}

// Diagnostics receives every upstream failure.
type Diagnostics interface {
	ReportFailure(ctx context.Context, f Failure)
}

type nopDiagnostics struct{}

func (nopDiagnostics) ReportFailure(context.Context, Failure) {}

// NewHTTPClient returns an instrumented HTTP client for the partner API.
// A non-positive timeout uses the 30s default.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}
