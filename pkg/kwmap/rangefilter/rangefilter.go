// Package rangefilter evaluates numeric range predicates for search volume,
// keyword difficulty and CPC filters.
package rangefilter

import (
	"math"
	"strconv"
	"strings"
)

const (
	// Any disables the filter.
	Any = "any"
	// Custom takes bounds from Filter.CustomMin and Filter.CustomMax.
	Custom = "custom"
)

// Range is a named bucket. A nil bound is open on that side.
type Range struct {
	Label string   `yaml:"label" toml:"label" json:"label"`
	Min   *float64 `yaml:"min" toml:"min" json:"min"`
	Max   *float64 `yaml:"max" toml:"max" json:"max"`
}

// Ranges maps a selection key to its bucket.
type Ranges map[string]Range

// Filter is the user selection for one numeric dimension. Custom bounds are
// kept as entered; empty or unparsable text leaves that side unbounded.
type Filter struct {
	Selection string `yaml:"selection" toml:"selection" json:"currentSelection"`
	CustomMin string `yaml:"custom_min" toml:"custom_min" json:"customMin"`
	CustomMax string `yaml:"custom_max" toml:"custom_max" json:"customMax"`
}

// Between returns a custom filter with the given bounds.
func Between(min, max float64) Filter {
	return Filter{
		Selection: Custom,
		CustomMin: strconv.FormatFloat(min, 'f', -1, 64),
		CustomMax: strconv.FormatFloat(max, 'f', -1, 64),
	}
}

// Named returns a filter selecting the named bucket key.
func Named(key string) Filter {
	return Filter{Selection: key}
}

// Active reports whether the selection can constrain anything.
func (f Filter) Active() bool {
	sel := strings.TrimSpace(f.Selection)
	return sel != "" && sel != Any
}

// Bounds resolves the filter to concrete bounds. Unknown named keys resolve
// to no bounds at all.
func (f Filter) Bounds(named Ranges) (min, max *float64) {
	sel := strings.TrimSpace(f.Selection)
	switch sel {
	case "", Any:
		return nil, nil
	case Custom:
		return parseBound(f.CustomMin), parseBound(f.CustomMax)
	}
	r, ok := named[sel]
	if !ok {
		return nil, nil
	}
	return r.Min, r.Max
}

// Match reports whether value satisfies the filter. Bounds are inclusive.
// NaN never excludes.
func Match(value float64, f Filter, named Ranges) bool {
	if math.IsNaN(value) || !f.Active() {
		return true
	}
	min, max := f.Bounds(named)
	if min != nil && value < *min {
		return false
	}
	if max != nil && value > *max {
		return false
	}
	return true
}

// MatchText parses value and applies Match. Text that is not a number passes.
func MatchText(value string, f Filter, named Ranges) bool {
	v, ok := parseNumber(value)
	if !ok {
		return true
	}
	return Match(v, f, named)
}

func parseBound(s string) *float64 {
	v, ok := parseNumber(s)
	if !ok {
		return nil
	}
	return &v
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Bound is a helper for building Range literals.
func Bound(v float64) *float64 {
	return &v
}
