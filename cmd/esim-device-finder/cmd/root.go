// Package cmd implements the CLI commands for esim-device-finder.
package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/esim-device-finder/internal/config"
	"github.com/donaldgifford/esim-device-finder/internal/i18n"
	"github.com/donaldgifford/esim-device-finder/pkg/logger"
)

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return newRootCmd()
}

// settings are the persistent flags, resolved through viper so each can
// also come from an EDF_* environment variable.
type settings struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	s := &settings{v: viper.New()}

	root := &cobra.Command{
		Use:   "esim-device-finder",
		Short: "Search widget for eSIM compatible devices",
		Long: "esim-device-finder authenticates against the Airalo partner API,\n" +
			"fetches the list of eSIM compatible devices and serves an embeddable\n" +
			"search widget over it.",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file path (defaults and environment only when empty)")
	flags.String("log-level", "", "log level override (debug, info, warn, error)")
	flags.String("log-format", "", "log format override (text, json)")
	flags.String("locale", "", "widget locale override")
	flags.String("server", "", "API server URL; when set, commands query a running server")

	for _, name := range []string{"config", "log-level", "log-format", "locale", "server"} {
		cobra.CheckErr(s.v.BindPFlag(name, flags.Lookup(name)))
	}
	s.v.SetEnvPrefix("EDF")
	s.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	s.v.AutomaticEnv()

	root.AddCommand(serveCmd(s))
	root.AddCommand(renderCmd(s))
	root.AddCommand(searchCmd(s))
	root.AddCommand(tokenCmd(s))
	root.AddCommand(versionCommand())

	return root
}

// loadConfig reads the config file and applies flag and environment
// overrides on top of it.
func (s *settings) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(s.v.GetString("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if lvl := s.v.GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if format := s.v.GetString("log-format"); format != "" {
		cfg.Logging.Format = format
	}
	if locale := s.v.GetString("locale"); locale != "" {
		if _, err := i18n.Load(locale); err != nil {
			return nil, fmt.Errorf("--locale: %w", err)
		}
		cfg.Widget.Locale = locale
	}
	return cfg, nil
}

func (s *settings) server() string {
	return s.v.GetString("server")
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logger.New(cfg.Logging.Level, cfg.Logging.Format)
}
