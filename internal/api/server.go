// Package api assembles the HTTP surface: the echo server, its middleware,
// the widget routes and the huma JSON API.
package api

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/esim-device-finder/internal/api/handlers"
	"github.com/donaldgifford/esim-device-finder/internal/api/middleware"
)

// Service is what the HTTP surface needs from the embed service.
type Service interface {
	handlers.WidgetRenderer
	handlers.DeviceSearcher
	handlers.TokenResetter
}

// Deps are the collaborators of the HTTP server.
type Deps struct {
	Service Service
	Ready   handlers.ReadinessCheck
	Logger  *slog.Logger
	Version string
}

// New builds the echo server with every route registered.
func New(deps Deps) *echo.Echo {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(deps.Ready)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	widgetHandler := handlers.NewWidgetHandler(deps.Service)
	e.GET("/", widgetHandler.Page)
	e.GET("/widget", widgetHandler.Fragment)

	version := deps.Version
	if version == "" {
		version = "dev"
	}
	humaAPI := humaecho.New(e, huma.DefaultConfig("eSIM Device Finder API", version))
	handlers.RegisterSearchRoutes(humaAPI, handlers.NewSearchHandler(deps.Service))
	handlers.RegisterTokenRoutes(humaAPI, handlers.NewTokenHandler(deps.Service))

	return e
}
