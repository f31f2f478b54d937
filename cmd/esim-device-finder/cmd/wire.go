package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/donaldgifford/esim-device-finder/internal/airalo"
	"github.com/donaldgifford/esim-device-finder/internal/config"
	"github.com/donaldgifford/esim-device-finder/internal/diag"
	"github.com/donaldgifford/esim-device-finder/internal/engine"
	"github.com/donaldgifford/esim-device-finder/internal/i18n"
	"github.com/donaldgifford/esim-device-finder/internal/widget"
)

var errNoCredentials = errors.New("partner API credentials are not configured")

// components are the wired collaborators shared by the commands.
type components struct {
	svc   *engine.EmbedService
	cache *airalo.TokenCache
	creds airalo.Credentials
}

func buildComponents(cfg *config.Config, log *slog.Logger) *components {
	// The locale was checked by config validation and loadConfig.
	msgs := i18n.MustLoad(cfg.Widget.Locale)

	limiter := airalo.NewRateLimiter(cfg.Airalo.RateLimit.PerSecond, cfg.Airalo.RateLimit.Burst)
	sink := diag.NewSink(log)
	hc := airalo.NewHTTPClient(cfg.Airalo.Timeout)

	auth := airalo.NewAuthClient(
		airalo.WithTokenURL(cfg.Airalo.TokenURL),
		airalo.WithHTTPClient(hc),
		airalo.WithAuthRateLimiter(limiter),
		airalo.WithAuthDiagnostics(sink),
	)
	catalog := airalo.NewCatalogClient(
		airalo.WithDevicesURL(cfg.Airalo.DevicesURL),
		airalo.WithCatalogHTTPClient(hc),
		airalo.WithCatalogRateLimiter(limiter),
		airalo.WithCatalogDiagnostics(sink),
	)

	c := &components{
		cache: airalo.NewTokenCache(),
		creds: airalo.Credentials{
			ClientID:     cfg.Airalo.ClientID,
			ClientSecret: cfg.Airalo.ClientSecret,
		},
	}
	c.svc = engine.NewEmbedService(auth, catalog, c.cache, c.creds, msgs,
		engine.WithLogger(log),
		engine.WithSafetyMargin(cfg.Airalo.TokenSafetyMargin),
		engine.WithMaxDevices(cfg.Catalog.MaxDevices),
		engine.WithCatalogTTL(cfg.Catalog.CacheTTL),
		engine.WithWidgetOptions(widget.Options{
			MinQueryLength: cfg.Widget.MinQueryLength,
			MaxResults:     cfg.Widget.MaxResults,
		}),
	)
	return c
}

// ready reports whether a token request could be attempted at all.
func (c *components) ready(context.Context) error {
	if !c.creds.Complete() {
		return errNoCredentials
	}
	return nil
}
