// Package main implements a mock Airalo partner API server for local
// development. It serves the OAuth token endpoint and the compatible-devices
// list from a JSON fixture, so the widget can be exercised without real
// partner credentials.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// devicesResponse mirrors the compatible-devices payload.
type devicesResponse struct {
	Data []json.RawMessage `json:"data"`
}

// failMode selects a simulated upstream failure.
type failMode string

const (
	failNone    failMode = ""
	failInvalid failMode = "invalid" // 200 with a body the client cannot use
	failServer  failMode = "server"  // 500 with an error body
	failEmpty   failMode = "empty"   // 200 with no data (devices only)
)

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/compatible_devices.json", "path to compatible-devices fixture")
	ttl := flag.Duration("token-ttl", 24*time.Hour, "lifetime reported for issued tokens")
	tokenFail := flag.String("fail-token", "", "simulate token failures: invalid, server")
	devicesFail := flag.String("fail-devices", "", "simulate catalog failures: invalid, server, empty")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fixture, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "devices", len(fixture.Data))

	tokens := newTokenStore()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/token", tokenHandler(logger, tokens, *ttl, failMode(*tokenFail)))
	mux.HandleFunc("GET /v2/compatible-devices", devicesHandler(logger, tokens, fixture, failMode(*devicesFail)))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock Airalo server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) (*devicesResponse, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var resp devicesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &resp, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

// tokenStore remembers issued tokens until they expire.
type tokenStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func newTokenStore() *tokenStore {
	return &tokenStore{tokens: make(map[string]time.Time)}
}

func (s *tokenStore) issue(ttl time.Duration) string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	tok := "mock-" + hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tok] = time.Now().Add(ttl)
	return tok
}

func (s *tokenStore) valid(tok string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.tokens[tok]
	return ok && time.Now().Before(exp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func tokenHandler(logger *slog.Logger, tokens *tokenStore, ttl time.Duration, fail failMode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch fail {
		case failInvalid:
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>maintenance</html>"))
			return
		case failServer:
			writeJSON(w, http.StatusInternalServerError, map[string]any{"meta": map[string]string{"message": "internal error"}})
			return
		}

		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"meta": map[string]string{"message": "malformed form"}})
			return
		}

		// Presence only; any credentials are accepted.
		if r.PostForm.Get("client_id") == "" || r.PostForm.Get("client_secret") == "" ||
			r.PostForm.Get("grant_type") != "client_credentials" {
			logger.Warn("token request missing credentials")
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"data": map[string]string{"client_id": "The client id field is required."},
				"meta": map[string]string{"message": "the parameter is invalid"},
			})
			return
		}

		tok := tokens.issue(ttl)
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"token_type":   "Bearer",
				"expires_in":   int64(ttl.Seconds()),
				"access_token": tok,
			},
			"meta": map[string]string{"message": "success"},
		})
		logger.Info("issued mock token", "ttl", ttl)
	}
}

func devicesHandler(
	logger *slog.Logger,
	tokens *tokenStore,
	fixture *devicesResponse,
	fail failMode,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || !tokens.valid(tok) {
			logger.Warn("devices request with missing or unknown token")
			writeJSON(w, http.StatusUnauthorized, map[string]any{"meta": map[string]string{"message": "Unauthenticated."}})
			return
		}

		switch fail {
		case failInvalid:
			_, _ = w.Write([]byte("{truncated"))
			return
		case failServer:
			writeJSON(w, http.StatusInternalServerError, map[string]any{"meta": map[string]string{"message": "internal error"}})
			return
		case failEmpty:
			writeJSON(w, http.StatusOK, devicesResponse{Data: []json.RawMessage{}})
			return
		}

		writeJSON(w, http.StatusOK, fixture)
		logger.Info("served devices", "count", len(fixture.Data))
	}
}
