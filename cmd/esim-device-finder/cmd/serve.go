package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/esim-device-finder/internal/api"
	"github.com/donaldgifford/esim-device-finder/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the widget server",
		Long: "Serves the widget fragment at /widget, a demo page at /, the JSON\n" +
			"search API under /api/v1 and the health and metrics endpoints.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), s)
		},
	}
}

func runServe(ctx context.Context, s *settings) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}

	comps := buildComponents(cfg, log)
	if err := comps.ready(ctx); err != nil {
		log.Warn("starting without credentials; the widget will render as unavailable",
			"env", "AIRALO_CLIENT_ID, AIRALO_CLIENT_SECRET")
	}

	e := api.New(api.Deps{
		Service: comps.svc,
		Ready:   comps.ready,
		Logger:  log,
		Version: Version,
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr, "locale", cfg.Widget.Locale, "version", Version)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-sigCtx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("flushing traces", "error", err)
	}

	log.Info("server stopped")
	return nil
}

