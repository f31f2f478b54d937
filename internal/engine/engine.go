// Package engine orchestrates token acquisition, catalog loading and widget
// rendering for a single embed invocation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/donaldgifford/esim-device-finder/internal/airalo"
	"github.com/donaldgifford/esim-device-finder/internal/i18n"
	"github.com/donaldgifford/esim-device-finder/internal/metrics"
	"github.com/donaldgifford/esim-device-finder/internal/widget"
)

// DefaultMaxDevices caps the catalog embedded in the widget.
const DefaultMaxDevices = 3000

// State is a step of the embed state machine.
type State int

// Embed states, in order. Unavailable is terminal and reachable from any
// step before Rendered.
const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateCatalogLoaded
	StateRendered
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateCatalogLoaded:
		return "catalog_loaded"
	case StateRendered:
		return "rendered"
	case StateUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome is the result of one Render call. On success Devices holds the
// bounded catalog; on failure Message holds the localized notice and
// FailedAt the last state reached.
type Outcome struct {
	State    State
	FailedAt State
	Message  string
	Devices  []airalo.Device
	Err      error
}

// EmbedService runs Unauthenticated → Authenticated → CatalogLoaded →
// Rendered, falling to Unavailable on the first failure. Invocations share
// nothing except the token cache (and the catalog snapshot when a catalog
// TTL is configured).
type EmbedService struct {
	auth     airalo.TokenFetcher
	catalog  airalo.DeviceFetcher
	cache    *airalo.TokenCache
	creds    airalo.Credentials
	messages i18n.Messages
	log      *slog.Logger

	safetyMargin time.Duration
	maxDevices   int
	widgetOpts   widget.Options
	catalogTTL   time.Duration
	nowFunc      func() time.Time

	snapshot atomic.Pointer[catalogSnapshot]
}

type catalogSnapshot struct {
	devices   []airalo.Device
	fetchedAt time.Time
}

// Option configures the EmbedService.
type Option func(*EmbedService)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *EmbedService) {
		s.log = l
	}
}

// WithSafetyMargin sets how long before the API-reported expiry a cached
// token stops being used.
func WithSafetyMargin(d time.Duration) Option {
	return func(s *EmbedService) {
		s.safetyMargin = d
	}
}

// WithMaxDevices sets the catalog cap.
func WithMaxDevices(n int) Option {
	return func(s *EmbedService) {
		if n > 0 {
			s.maxDevices = n
		}
	}
}

// WithWidgetOptions sets the widget filter thresholds.
func WithWidgetOptions(o widget.Options) Option {
	return func(s *EmbedService) {
		s.widgetOpts = o
	}
}

// WithCatalogTTL keeps a loaded catalog for d. Zero fetches on every call.
func WithCatalogTTL(d time.Duration) Option {
	return func(s *EmbedService) {
		s.catalogTTL = d
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(s *EmbedService) {
		s.nowFunc = f
	}
}

// NewEmbedService creates an EmbedService with injected dependencies.
func NewEmbedService(
	auth airalo.TokenFetcher,
	catalog airalo.DeviceFetcher,
	cache *airalo.TokenCache,
	creds airalo.Credentials,
	messages i18n.Messages,
	opts ...Option,
) *EmbedService {
	s := &EmbedService{
		auth:         auth,
		catalog:      catalog,
		cache:        cache,
		creds:        creds,
		messages:     messages,
		log:          slog.Default(),
		safetyMargin: airalo.DefaultSafetyMargin,
		maxDevices:   DefaultMaxDevices,
		widgetOpts:   widget.DefaultOptions(),
		nowFunc:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns a bearer token, from the cache when possible. A fetched
// token is stored before it is returned; it is still returned when the
// safety margin leaves it no cacheable lifetime.
func (s *EmbedService) Token(ctx context.Context) (string, error) {
	if tok, ok := s.cache.Get(); ok {
		metrics.TokenCacheLookupsTotal.WithLabelValues("hit").Inc()
		return tok.Value, nil
	}
	metrics.TokenCacheLookupsTotal.WithLabelValues("miss").Inc()

	grant, err := s.auth.FetchToken(ctx, s.creds)
	if err != nil {
		return "", err
	}

	stored := s.cache.Store(grant.Value, grant.TTL, s.safetyMargin)
	s.log.Debug("stored new access token",
		"ttl", grant.TTL,
		"expires_at", stored.ExpiresAt,
	)
	return grant.Value, nil
}

// ClearToken drops the cached token so the next call fetches a new one.
func (s *EmbedService) ClearToken() {
	s.cache.Clear()
	s.log.Info("access token cache cleared")
}

// Catalog authenticates and returns the bounded device list.
func (s *EmbedService) Catalog(ctx context.Context) ([]airalo.Device, error) {
	if devices, ok := s.cachedCatalog(); ok {
		return devices, nil
	}

	token, err := s.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticating: %w", err)
	}

	devices, err := s.loadCatalog(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return devices, nil
}

// SearchResult is the widget filter applied server-side: the state plus the
// lines the widget would render for it.
type SearchResult struct {
	State widget.SearchState
	Lines []string
}

// SearchError is a Search that could not load the catalog. Message is the
// localized notice the widget shows in the same situation.
type SearchError struct {
	Message string
	Err     error
}

func (e *SearchError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// Search filters the catalog the way the widget does. Queries below the
// threshold return an empty result without touching the partner API.
func (s *EmbedService) Search(ctx context.Context, query string) (SearchResult, error) {
	var devices []airalo.Device
	if s.widgetOpts.Accepts(query) {
		var err error
		devices, err = s.Catalog(ctx)
		if err != nil {
			msg := s.messages.LoadFailed
			if IsAuthFailure(err) {
				msg = s.messages.SearchUnavailable
			}
			return SearchResult{}, &SearchError{Message: msg, Err: err}
		}
	}

	state := widget.Search(devices, query, s.widgetOpts)
	return SearchResult{State: state, Lines: state.Lines(s.messages)}, nil
}

// Render runs the state machine once.
func (s *EmbedService) Render(ctx context.Context) Outcome {
	out := s.render(ctx)
	metrics.WidgetRendersTotal.WithLabelValues(out.State.String()).Inc()
	return out
}

func (s *EmbedService) render(ctx context.Context) Outcome {
	if devices, ok := s.cachedCatalog(); ok {
		return Outcome{State: StateRendered, Devices: devices}
	}

	state := StateUnauthenticated
	token, err := s.Token(ctx)
	if err != nil {
		return s.unavailable(state, s.messages.SearchUnavailable, err)
	}

	state = StateAuthenticated
	devices, err := s.loadCatalog(ctx, token)
	if err != nil {
		return s.unavailable(state, s.messages.LoadFailed, err)
	}

	// CatalogLoaded → Rendered: the payload is serialized by the widget
	// component when the outcome is written.
	return Outcome{State: StateRendered, Devices: devices}
}

// RenderHTML runs the state machine and writes either the widget fragment
// or the localized notice to w. Errors writing to w are returned; upstream
// failures are not, they are carried by the Outcome.
func (s *EmbedService) RenderHTML(ctx context.Context, w io.Writer) (Outcome, error) {
	out := s.Render(ctx)

	if out.State == StateUnavailable {
		if err := widget.Message(out.Message).Render(ctx, w); err != nil {
			return out, fmt.Errorf("writing notice: %w", err)
		}
		return out, nil
	}

	if err := widget.Widget(out.Devices, s.messages, s.widgetOpts).Render(ctx, w); err != nil {
		return out, fmt.Errorf("writing widget: %w", err)
	}
	return out, nil
}

func (s *EmbedService) unavailable(at State, message string, err error) Outcome {
	s.log.Warn("search widget unavailable",
		"failed_at", at.String(),
		"kind", airalo.KindLabel(err),
		"error", err,
	)
	return Outcome{
		State:    StateUnavailable,
		FailedAt: at,
		Message:  message,
		Err:      err,
	}
}

func (s *EmbedService) loadCatalog(ctx context.Context, token string) ([]airalo.Device, error) {
	devices, err := s.catalog.FetchDevices(ctx, token)
	if err != nil {
		return nil, err
	}

	if len(devices) > s.maxDevices {
		metrics.CatalogTruncationsTotal.Inc()
		s.log.Debug("truncating catalog", "received", len(devices), "max", s.maxDevices)
	}
	devices = Truncate(devices, s.maxDevices)
	metrics.CatalogDevices.Set(float64(len(devices)))

	if s.catalogTTL > 0 {
		s.snapshot.Store(&catalogSnapshot{devices: devices, fetchedAt: s.nowFunc()})
	}
	return devices, nil
}

func (s *EmbedService) cachedCatalog() ([]airalo.Device, bool) {
	if s.catalogTTL <= 0 {
		return nil, false
	}
	snap := s.snapshot.Load()
	if snap == nil || !s.nowFunc().Before(snap.fetchedAt.Add(s.catalogTTL)) {
		return nil, false
	}
	return snap.devices, true
}

// Truncate returns at most the first limit devices, preserving order.
func Truncate(devices []airalo.Device, limit int) []airalo.Device {
	if limit < 0 || len(devices) <= limit {
		return devices
	}
	return devices[:limit:limit]
}

// IsAuthFailure reports whether err came from the token step.
func IsAuthFailure(err error) bool {
	var authErr *airalo.AuthError
	return errors.As(err, &authErr)
}
