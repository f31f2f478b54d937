// Package i18n holds the user-facing strings of the search widget, one YAML
// catalog per locale embedded at build time.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "es"

//go:embed locales/*.yaml
var localesFS embed.FS

// Messages are the localized strings for one locale.
type Messages struct {
	SearchUnavailable string `yaml:"search_unavailable"`
	LoadFailed        string `yaml:"load_failed"`
	Placeholder       string `yaml:"placeholder"`
	// ShowingPrefix may contain {max}, replaced by the rendered result cap.
	ShowingPrefix string `yaml:"showing_prefix"`
	ShowingSuffix string `yaml:"showing_suffix"`
}

// Showing returns ShowingPrefix with {max} filled in.
func (m Messages) Showing(maxResults int) string {
	return strings.ReplaceAll(m.ShowingPrefix, "{max}", strconv.Itoa(maxResults))
}

func (m Messages) validate() error {
	var errs []error
	if m.SearchUnavailable == "" {
		errs = append(errs, errors.New("search_unavailable is required"))
	}
	if m.LoadFailed == "" {
		errs = append(errs, errors.New("load_failed is required"))
	}
	if m.Placeholder == "" {
		errs = append(errs, errors.New("placeholder is required"))
	}
	if m.ShowingPrefix == "" {
		errs = append(errs, errors.New("showing_prefix is required"))
	}
	if m.ShowingSuffix == "" {
		errs = append(errs, errors.New("showing_suffix is required"))
	}
	return errors.Join(errs...)
}

// Load returns the catalog for locale. Region suffixes fall back to the base
// language, so "es-MX" and "es_ES" both resolve to "es".
func Load(locale string) (Messages, error) {
	name := normalize(locale)
	if !slices.Contains(Locales(), name) {
		return Messages{}, fmt.Errorf("unsupported locale %q (available: %s)",
			locale, strings.Join(Locales(), ", "))
	}

	data, err := localesFS.ReadFile(path.Join("locales", name+".yaml"))
	if err != nil {
		return Messages{}, fmt.Errorf("reading locale %q: %w", name, err)
	}

	var m Messages
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Messages{}, fmt.Errorf("parsing locale %q: %w", name, err)
	}
	if err := m.validate(); err != nil {
		return Messages{}, fmt.Errorf("locale %q: %w", name, err)
	}
	return m, nil
}

// MustLoad is Load for locales known to be embedded.
func MustLoad(locale string) Messages {
	m, err := Load(locale)
	if err != nil {
		panic(err)
	}
	return m
}

// Locales lists the embedded locale names, sorted.
func Locales() []string {
	entries, err := fs.ReadDir(localesFS, "locales")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	slices.Sort(names)
	return names
}

func normalize(locale string) string {
	l := strings.ToLower(strings.TrimSpace(locale))
	if l == "" {
		return DefaultLocale
	}
	if i := strings.IndexAny(l, "-_"); i > 0 {
		l = l[:i]
	}
	return l
}
