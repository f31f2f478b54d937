// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/esim-device-finder/internal/i18n"
)

// Environment variables consulted when the credentials are not set in the
// config file.
const (
	EnvClientID     = "AIRALO_CLIENT_ID"
	EnvClientSecret = "AIRALO_CLIENT_SECRET" //nolint:gosec // variable name, not a credential
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Airalo  AiraloConfig  `yaml:"airalo"`
	Catalog CatalogConfig `yaml:"catalog"`
	Widget  WidgetConfig  `yaml:"widget"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// AiraloConfig defines partner API settings. Missing credentials are not a
// load error; they surface as a missing-config failure on the first token
// request.
type AiraloConfig struct {
	ClientID          string          `yaml:"client_id"`
	ClientSecret      string          `yaml:"client_secret"`
	TokenURL          string          `yaml:"token_url"`
	DevicesURL        string          `yaml:"devices_url"`
	Timeout           time.Duration   `yaml:"timeout"`
	TokenSafetyMargin time.Duration   `yaml:"token_safety_margin"`
	RateLimit         RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines outbound partner API throttling.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// CatalogConfig defines how much of the device catalog is kept and for how long.
type CatalogConfig struct {
	MaxDevices int           `yaml:"max_devices"`
	CacheTTL   time.Duration `yaml:"cache_ttl"` // 0 fetches on every render
}

// WidgetConfig defines the search widget behavior.
type WidgetConfig struct {
	Locale         string `yaml:"locale"`
	MinQueryLength int    `yaml:"min_query_length"`
	MaxResults     int    `yaml:"max_results"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// TracingConfig defines the OTLP trace exporter.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return Parse(data)
}

// Parse is Load for in-memory YAML.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := seeded()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// seeded returns a Config holding the defaults for fields where an explicit
// zero must not be replaced. YAML decoding overwrites only the keys present,
// so a configured 0 survives to validate.
func seeded() *Config {
	return &Config{
		Airalo:  AiraloConfig{TokenSafetyMargin: time.Hour},
		Catalog: CatalogConfig{MaxDevices: 3000},
		Widget: WidgetConfig{
			MinQueryLength: 2,
			MaxResults:     15,
		},
	}
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyAiraloDefaults(&cfg.Airalo)
	applyWidgetDefaults(&cfg.Widget)
	applyLoggingDefaults(&cfg.Logging)
	applyTracingDefaults(&cfg.Tracing)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyAiraloDefaults(a *AiraloConfig) {
	if a.ClientID == "" {
		a.ClientID = os.Getenv(EnvClientID)
	}
	if a.ClientSecret == "" {
		a.ClientSecret = os.Getenv(EnvClientSecret)
	}
	if a.TokenURL == "" {
		a.TokenURL = "https://partners-api.airalo.com/v2/token" //nolint:gosec // not a credential
	}
	if a.DevicesURL == "" {
		a.DevicesURL = "https://partners-api.airalo.com/v2/compatible-devices"
	}
	if a.Timeout == 0 {
		a.Timeout = 30 * time.Second
	}
	if a.RateLimit.PerSecond == 0 {
		a.RateLimit.PerSecond = 5.0
	}
	if a.RateLimit.Burst == 0 {
		a.RateLimit.Burst = 10
	}
}


func applyWidgetDefaults(w *WidgetConfig) {
	if w.Locale == "" {
		w.Locale = i18n.DefaultLocale
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func applyTracingDefaults(t *TracingConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "esim-device-finder"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1.0
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535 (got %d)", cfg.Server.Port))
	}
	if cfg.Airalo.Timeout < 0 {
		errs = append(errs, fmt.Errorf("airalo.timeout must not be negative"))
	}
	if cfg.Airalo.TokenSafetyMargin < 0 {
		errs = append(errs, fmt.Errorf("airalo.token_safety_margin must not be negative"))
	}
	if cfg.Catalog.MaxDevices < 1 {
		errs = append(errs, fmt.Errorf("catalog.max_devices must be at least 1 (got %d)", cfg.Catalog.MaxDevices))
	}
	if cfg.Catalog.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("catalog.cache_ttl must not be negative"))
	}
	if _, err := i18n.Load(cfg.Widget.Locale); err != nil {
		errs = append(errs, fmt.Errorf("widget.locale: %w", err))
	}
	if cfg.Widget.MinQueryLength < 1 {
		errs = append(errs, fmt.Errorf("widget.min_query_length must be at least 1 (got %d)", cfg.Widget.MinQueryLength))
	}
	if cfg.Widget.MaxResults < 1 {
		errs = append(errs, fmt.Errorf("widget.max_results must be at least 1 (got %d)", cfg.Widget.MaxResults))
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be one of: text, json (got %q)", cfg.Logging.Format))
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, fmt.Errorf("tracing.endpoint is required when tracing is enabled"))
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("tracing.sample_ratio must be between 0 and 1 (got %v)", cfg.Tracing.SampleRatio))
	}

	return errors.Join(errs...)
}
