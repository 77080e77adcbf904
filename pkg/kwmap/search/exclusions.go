package search

import "strings"

// Exclusions is a set of lowercased strings. Any text containing a member is
// blocked.
type Exclusions map[string]struct{}

// NewExclusions builds a set from the given values, dropping empties.
func NewExclusions(values ...string) Exclusions {
	set := make(Exclusions, len(values))
	for _, v := range values {
		set.Add(v)
	}
	return set
}

// ParseExclusions splits raw input on commas and newlines.
func ParseExclusions(raw string) Exclusions {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	return NewExclusions(fields...)
}

// Add inserts v after lowercasing and trimming.
func (e Exclusions) Add(v string) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return
	}
	e[v] = struct{}{}
}

// Blocks reports whether text contains any excluded string.
func (e Exclusions) Blocks(text string) bool {
	if len(e) == 0 {
		return false
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	for ex := range e {
		if strings.Contains(lower, ex) {
			return true
		}
	}
	return false
}

// Values returns the members in no particular order.
func (e Exclusions) Values() []string {
	out := make([]string, 0, len(e))
	for v := range e {
		out = append(out, v)
	}
	return out
}
