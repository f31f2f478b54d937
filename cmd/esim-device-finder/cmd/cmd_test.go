package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const partnerDevices = `{"data":[
	{"name":"iPhone 12","brand":"Apple","model":"A2403"},
	{"name":"Galaxy S21","brand":"Samsung","model":"SM-G991"},
	{"name":"Pixel 7","brand":"Google","model":"GVU6C"}
]}`

// newPartnerAPI serves the token and compatible-devices endpoints.
func newPartnerAPI(t *testing.T, tokenBody string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/token", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(tokenBody))
	})
	mux.HandleFunc("GET /v2/compatible-devices", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-0123456789" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(partnerDevices))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

const validToken = `{"data":{"access_token":"tok-0123456789","expires_in":86400}}`

func writeConfig(t *testing.T, partnerURL, locale string) string {
	t.Helper()

	cfg := fmt.Sprintf(`
airalo:
  client_id: test-id
  client_secret: test-secret
  token_url: %[1]s/v2/token
  devices_url: %[1]s/v2/compatible-devices
  rate_limit:
    per_second: 100
widget:
  locale: %[2]s
logging:
  level: error
`, partnerURL, locale)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestSearchCommand_Local(t *testing.T) {
	t.Parallel()

	partner := newPartnerAPI(t, validToken)
	cfgPath := writeConfig(t, partner.URL, "en")

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "brand match", query: "apple", want: "iPhone 12 (Apple)\n"},
		{name: "model match", query: "gvu", want: "Pixel 7 (Google)\n"},
		{name: "no match", query: "nokia", want: ""},
		{name: "below threshold", query: "a", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := execute(t, "search", tt.query, "--config", cfgPath)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestSearchCommand_LocalAuthFailure(t *testing.T) {
	t.Parallel()

	partner := newPartnerAPI(t, `{"data":{}}`)
	cfgPath := writeConfig(t, partner.URL, "en")

	_, err := execute(t, "search", "iphone", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The search is not available at the moment.")
}

func TestSearchCommand_RemoteJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/devices/search", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":"pix","total":1,` +
			`"devices":[{"name":"Pixel 7","brand":"Google","model":"GVU6C"}],"lines":["Pixel 7 (Google)"]}`))
	}))
	defer srv.Close()

	out, err := execute(t, "search", "pix", "--server", srv.URL, "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.InDelta(t, 1, got["total"], 0)
	assert.Equal(t, []any{"Pixel 7 (Google)"}, got["lines"])
}

func TestRenderCommand(t *testing.T) {
	t.Parallel()

	t.Run("rendered", func(t *testing.T) {
		t.Parallel()

		partner := newPartnerAPI(t, validToken)
		out, err := execute(t, "render", "--strict", "--config", writeConfig(t, partner.URL, "en"))
		require.NoError(t, err)
		assert.Contains(t, out, `id="busqueda"`)
		assert.Contains(t, out, "Galaxy S21")
	})

	t.Run("unavailable prints notice", func(t *testing.T) {
		t.Parallel()

		partner := newPartnerAPI(t, `not json`)
		out, err := execute(t, "render", "--config", writeConfig(t, partner.URL, "en"))
		require.NoError(t, err)
		assert.Equal(t, "<p>The search is not available at the moment.</p>\n", out)
	})

	t.Run("strict fails when unavailable", func(t *testing.T) {
		t.Parallel()

		partner := newPartnerAPI(t, `not json`)
		_, err := execute(t, "render", "--strict", "--config", writeConfig(t, partner.URL, "en"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unavailable")
	})
}

func TestTokenCommand(t *testing.T) {
	t.Parallel()

	partner := newPartnerAPI(t, validToken)
	out, err := execute(t, "token", "--config", writeConfig(t, partner.URL, "en"))
	require.NoError(t, err)
	assert.Contains(t, out, "tok-...6789")
	assert.NotContains(t, out, "tok-0123456789")
	assert.Contains(t, out, "Cached until:")
}

func TestTokenClearCommand(t *testing.T) {
	t.Parallel()

	t.Run("requires server", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, "token", "clear")
		require.Error(t, err)
	})

	t.Run("clears remote cache", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		out, err := execute(t, "token", "clear", "--server", srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "token cache cleared\n", out)
	})
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "esim-device-finder "+Version+"\n", out)
}

func TestMaskToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "********"},
		{in: "short", want: "********"},
		{in: "12345678", want: "********"},
		{in: "abcdefghijkl", want: "abcd...ijkl"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, maskToken(tt.in), tt.in)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Parallel()

	s := &settings{v: viper.New()}
	s.v.Set("log-level", "debug")
	s.v.Set("log-format", "json")
	s.v.Set("locale", "en")

	cfg, err := s.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "en", cfg.Widget.Locale)
	assert.Equal(t, 8080, cfg.Server.Port, "defaults still apply")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Parallel()

	s := &settings{v: viper.New()}
	s.v.Set("config", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := s.loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestLoadConfig_UnknownLocaleOverride(t *testing.T) {
	t.Parallel()

	s := &settings{v: viper.New()}
	s.v.Set("locale", "fr")

	_, err := s.loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--locale")
}
