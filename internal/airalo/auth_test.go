package airalo_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/esim-device-finder/internal/airalo"
)

// tokenJSON returns a valid partner API token response.
func tokenJSON(token string, expiresIn int) []byte {
	return []byte(fmt.Sprintf(
		`{"data":{"token_type":"Bearer","expires_in":%d,"access_token":%q},"meta":{"message":"success"}}`,
		expiresIn,
		token,
	))
}

var testCreds = airalo.Credentials{ClientID: "client-id", ClientSecret: "client-secret"}

func TestAuthClient_FetchToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		creds      airalo.Credentials
		wantKind   error
		wantToken  string
		wantTTL    time.Duration
		wantBody   string
		wantStatus int
	}{
		{
			name: "successful token fetch",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write(tokenJSON("test-token-123", 31622400))
			},
			creds:     testCreds,
			wantToken: "test-token-123",
			wantTTL:   31622400 * time.Second,
		},
		{
			name: "invalid JSON body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html>gateway timeout</html>"))
			},
			creds:      testCreds,
			wantKind:   airalo.ErrInvalidResponse,
			wantBody:   "<html>gateway timeout</html>",
			wantStatus: http.StatusOK,
		},
		{
			name: "missing access token",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"data":{"message":"invalid client"}}`))
			},
			creds:      testCreds,
			wantKind:   airalo.ErrInvalidResponse,
			wantBody:   `{"data":{"message":"invalid client"}}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "missing credentials never reach the network",
			handler: func(_ http.ResponseWriter, _ *http.Request) {
				t.Error("token endpoint must not be called without credentials")
			},
			creds:    airalo.Credentials{ClientID: "only-id"},
			wantKind: airalo.ErrMissingConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			diag := &recordingDiagnostics{}
			client := airalo.NewAuthClient(
				airalo.WithTokenURL(srv.URL),
				airalo.WithAuthDiagnostics(diag),
			)

			grant, err := client.FetchToken(context.Background(), tt.creds)

			if tt.wantKind != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantKind)

				var authErr *airalo.AuthError
				require.ErrorAs(t, err, &authErr)

				failures := diag.all()
				require.Len(t, failures, 1)
				assert.Equal(t, "token", failures[0].Operation)
				assert.Equal(t, tt.wantKind, failures[0].Kind)
				assert.Equal(t, tt.wantBody, failures[0].Body)
				assert.Equal(t, tt.wantStatus, failures[0].StatusCode)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, grant.Value)
			assert.Equal(t, tt.wantTTL, grant.TTL)
			assert.Empty(t, diag.all())
		})
	}
}

func TestAuthClient_TransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	diag := &recordingDiagnostics{}
	client := airalo.NewAuthClient(
		airalo.WithTokenURL(url),
		airalo.WithAuthDiagnostics(diag),
	)

	_, err := client.FetchToken(context.Background(), testCreds)
	require.Error(t, err)
	assert.ErrorIs(t, err, airalo.ErrTransport)
	assert.False(t, errors.Is(err, airalo.ErrInvalidResponse))

	failures := diag.all()
	require.Len(t, failures, 1)
	assert.Equal(t, airalo.ErrTransport, failures[0].Kind)
	assert.Zero(t, failures[0].StatusCode)
}

func TestAuthClient_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	// Cleanups run in reverse: the handler is released before Close waits on it.
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := airalo.NewAuthClient(
		airalo.WithTokenURL(srv.URL),
		airalo.WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}),
	)

	_, err := client.FetchToken(context.Background(), testCreds)
	require.Error(t, err)
	assert.ErrorIs(t, err, airalo.ErrTransport)
}

func TestAuthClient_RequestFormat(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			assert.Equal(
				t,
				"application/x-www-form-urlencoded",
				r.Header.Get("Content-Type"),
			)

			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "client_credentials", r.FormValue("grant_type"))
			assert.Equal(t, "my-client", r.FormValue("client_id"))
			assert.Equal(t, "my-secret", r.FormValue("client_secret"))

			_, _ = w.Write(tokenJSON("format-test-token", 3600))
		}),
	)
	defer srv.Close()

	client := airalo.NewAuthClient(airalo.WithTokenURL(srv.URL))

	grant, err := client.FetchToken(
		context.Background(),
		airalo.Credentials{ClientID: "my-client", ClientSecret: "my-secret"},
	)
	require.NoError(t, err)
	assert.Equal(t, "format-test-token", grant.Value)
}

func TestAuthClient_RateLimiterThrottles(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write(tokenJSON("limited", 3600))
	}))
	defer srv.Close()

	// One request per minute, burst of one.
	client := airalo.NewAuthClient(
		airalo.WithTokenURL(srv.URL),
		airalo.WithAuthRateLimiter(airalo.NewRateLimiter(1.0/60, 1)),
	)

	_, err := client.FetchToken(context.Background(), testCreds)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = client.FetchToken(ctx, testCreds)
	require.Error(t, err)
	assert.ErrorIs(t, err, airalo.ErrTransport)
	assert.Equal(t, int32(1), hits.Load(), "throttled request never reaches the server")
}

func TestAuthClient_UnlimitedRateLimiter(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write(tokenJSON("unlimited", 3600))
	}))
	defer srv.Close()

	client := airalo.NewAuthClient(
		airalo.WithTokenURL(srv.URL),
		airalo.WithAuthRateLimiter(airalo.NewRateLimiter(0, 1)),
	)

	for range 3 {
		_, err := client.FetchToken(context.Background(), testCreds)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestAuthClient_CanceledContextIsTransport(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := airalo.NewAuthClient(
		airalo.WithTokenURL("http://127.0.0.1:1"),
		airalo.WithAuthRateLimiter(airalo.NewRateLimiter(1, 1)),
	)

	_, err := client.FetchToken(ctx, testCreds)
	require.Error(t, err)
	assert.ErrorIs(t, err, airalo.ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}
