// Package widget renders the embeddable compatible-device search widget and
// implements its filter in Go. The client script and Search apply the same
// rules, so server-side callers (the JSON API, the CLI, tests) see exactly
// what a visitor typing into the widget sees.
package widget

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/donaldgifford/esim-device-finder/internal/airalo"
	"github.com/donaldgifford/esim-device-finder/internal/i18n"
)

const (
	// DefaultMinQueryLength is the shortest query that triggers filtering.
	DefaultMinQueryLength = 2
	// DefaultMaxResults caps the rendered match list.
	DefaultMaxResults = 15
)

// Options tune the filter thresholds.
type Options struct {
	MinQueryLength int
	MaxResults     int
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		MinQueryLength: DefaultMinQueryLength,
		MaxResults:     DefaultMaxResults,
	}
}

func (o Options) withDefaults() Options {
	if o.MinQueryLength <= 0 {
		o.MinQueryLength = DefaultMinQueryLength
	}
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	return o
}

// Accepts reports whether query is long enough to be filtered. Length is
// counted in runes of the lowercased query, as the client script does.
func (o Options) Accepts(query string) bool {
	return utf8.RuneCountInString(Lower(query)) >= o.withDefaults().MinQueryLength
}

// dottedCapitalI expands to "i" plus a combining dot above when lowercased by
// browsers; strings.ToLower drops the dot.
var dottedCapitalI = strings.NewReplacer("\u0130", "i\u0307")

// Lower lowercases s the way String.prototype.toLowerCase does, so the Go
// filter and the client script agree. The context-sensitive final sigma rule
// is not applied: "Σ" always becomes "σ" here and may become "ς" in browsers.
func Lower(s string) string {
	return strings.ToLower(dottedCapitalI.Replace(s))
}

// SearchState is the outcome of filtering the catalog for one query.
type SearchState struct {
	Query      string          `json:"query"`
	Matches    []airalo.Device `json:"matches"`
	Total      int             `json:"total"`
	MaxResults int             `json:"max_results"`
}

// Truncated reports whether more devices matched than are shown.
func (s SearchState) Truncated() bool {
	return s.Total > len(s.Matches)
}

// Search filters devices by case-insensitive substring on name, brand or
// model. Queries shorter than the minimum length match nothing.
func Search(devices []airalo.Device, query string, opts Options) SearchState {
	opts = opts.withDefaults()
	state := SearchState{Query: query, Matches: []airalo.Device{}, MaxResults: opts.MaxResults}

	if !opts.Accepts(query) {
		return state
	}
	q := Lower(query)

	for _, d := range devices {
		if !Matches(d, q) {
			continue
		}
		state.Total++
		if len(state.Matches) < opts.MaxResults {
			state.Matches = append(state.Matches, d)
		}
	}
	return state
}

// Matches reports whether the lowercased query occurs in the device's name,
// brand or model.
func Matches(d airalo.Device, lowerQuery string) bool {
	return strings.Contains(Lower(d.Name), lowerQuery) ||
		strings.Contains(Lower(d.Brand), lowerQuery) ||
		strings.Contains(Lower(d.Model), lowerQuery)
}

// Label is the rendered text of one result line.
func Label(d airalo.Device) string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Brand)
}

// Lines returns the result list as the widget renders it: one line per
// shown match, then a summary line when matches were cut off.
func (s SearchState) Lines(m i18n.Messages) []string {
	lines := make([]string, 0, len(s.Matches)+1)
	for _, d := range s.Matches {
		lines = append(lines, Label(d))
	}
	if s.Truncated() {
		lines = append(lines, Summary(m, s.MaxResults, s.Total))
	}
	return lines
}

// Summary is the "Showing 15 of N results..." line.
func Summary(m i18n.Messages, maxResults, total int) string {
	return fmt.Sprintf("%s %d %s", m.Showing(maxResults), total, m.ShowingSuffix)
}
