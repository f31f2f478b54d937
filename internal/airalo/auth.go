package airalo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultTokenURL = DefaultBaseURL + "/token" //nolint:gosec // not a credential
	tokenOperation  = "token"
)

// AuthClient implements TokenFetcher against the partner API token endpoint
// using the client-credentials grant.
type AuthClient struct {
	tokenURL string
	client   *http.Client
	limiter  *RateLimiter
	diag     Diagnostics
}

// AuthOption configures the AuthClient.
type AuthOption func(*AuthClient)

// WithTokenURL overrides the default token endpoint.
func WithTokenURL(u string) AuthOption {
	return func(a *AuthClient) {
		a.tokenURL = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) AuthOption {
	return func(a *AuthClient) {
		a.client = c
	}
}

// WithAuthRateLimiter routes token requests through r.
func WithAuthRateLimiter(r *RateLimiter) AuthOption {
	return func(a *AuthClient) {
		a.limiter = r
	}
}

// WithAuthDiagnostics sets the sink that receives token failures.
func WithAuthDiagnostics(d Diagnostics) AuthOption {
	return func(a *AuthClient) {
		a.diag = d
	}
}

// NewAuthClient creates a token client.
func NewAuthClient(opts ...AuthOption) *AuthClient {
	a := &AuthClient{
		tokenURL: defaultTokenURL,
		client:   NewHTTPClient(defaultTimeout),
		diag:     nopDiagnostics{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type tokenResponse struct {
	Data struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	} `json:"data"`
}

// FetchToken requests a new bearer token. Every failure is reported to the
// diagnostics sink and returned as an *AuthError.
func (a *AuthClient) FetchToken(ctx context.Context, creds Credentials) (TokenGrant, error) {
	ctx, span := tracer.Start(ctx, "airalo.FetchToken")
	defer span.End()

	grant, status, body, err := a.fetch(ctx, creds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, KindLabel(err))
		var authErr *AuthError
		if errors.As(err, &authErr) {
			a.diag.ReportFailure(ctx, Failure{
				Operation:  tokenOperation,
				Kind:       authErr.Kind,
				StatusCode: status,
				Body:       body,
				Err:        authErr.Err,
			})
		}
		return TokenGrant{}, err
	}

	span.SetAttributes(attribute.Int64("airalo.token.ttl_seconds", int64(grant.TTL.Seconds())))
	return grant, nil
}

func (a *AuthClient) fetch(
	ctx context.Context,
	creds Credentials,
) (grant TokenGrant, status int, body string, err error) {
	if !creds.Complete() {
		return TokenGrant{}, 0, "", &AuthError{
			Kind: ErrMissingConfig,
			Err:  errors.New("client id and client secret are required"),
		}
	}

	form := url.Values{
		"client_id":     {creds.ClientID},
		"client_secret": {creds.ClientSecret},
		"grant_type":    {"client_credentials"},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		a.tokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return TokenGrant{}, 0, "", &AuthError{
			Kind: ErrTransport,
			Err:  fmt.Errorf("creating token request: %w", err),
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := roundTrip(ctx, a.client, a.limiter, tokenOperation, req)
	if err != nil {
		return TokenGrant{}, 0, "", &AuthError{Kind: ErrTransport, Err: err}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(resp.body, &tokenResp); err != nil {
		return TokenGrant{}, resp.status, string(resp.body), &AuthError{
			Kind: ErrInvalidResponse,
			Err:  fmt.Errorf("parsing token response: %w", err),
		}
	}

	if tokenResp.Data.AccessToken == "" {
		return TokenGrant{}, resp.status, string(resp.body), &AuthError{
			Kind: ErrInvalidResponse,
			Err:  fmt.Errorf("no access token in response (status %d)", resp.status),
		}
	}

	return TokenGrant{
		Value: tokenResp.Data.AccessToken,
		TTL:   time.Duration(tokenResp.Data.ExpiresIn) * time.Second,
	}, resp.status, "", nil
}
