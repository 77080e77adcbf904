// Package search implements free-text term matching and exclusion lists.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Term is one comma-separated search segment. Value is lowercased.
type Term struct {
	Value   string
	IsExact bool
}

// ParseTerms splits raw input on commas. A segment wrapped in double quotes
// is an exact term.
func ParseTerms(raw string) []Term {
	var terms []Term
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		exact := false
		if len(part) >= 2 && strings.HasPrefix(part, `"`) && strings.HasSuffix(part, `"`) {
			part = strings.TrimSpace(part[1 : len(part)-1])
			exact = true
		}
		if part == "" {
			continue
		}
		terms = append(terms, Term{Value: strings.ToLower(part), IsExact: exact})
	}
	return terms
}

// Match reports whether text satisfies the term. Exact terms compare the whole
// trimmed text; other terms must appear at the start of a word.
func (t Term) Match(text string) bool {
	if t.Value == "" {
		return false
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	if t.IsExact {
		return lower == t.Value
	}
	return containsAtWordStart(lower, t.Value)
}

// MatchAny reports whether any term matches text. No terms matches everything.
func MatchAny(text string, terms []Term) bool {
	if len(terms) == 0 {
		return true
	}
	for _, term := range terms {
		if term.Match(text) {
			return true
		}
	}
	return false
}

// MatchAnyField reports whether any term matches any of the fields.
func MatchAnyField(fields []string, terms []Term) bool {
	if len(terms) == 0 {
		return true
	}
	for _, f := range fields {
		if f == "" {
			continue
		}
		for _, term := range terms {
			if term.Match(f) {
				return true
			}
		}
	}
	return false
}

// containsAtWordStart reports whether needle occurs in haystack at an index
// preceded by the beginning of the string or a rune that is not a letter,
// digit or underscore.
func containsAtWordStart(haystack, needle string) bool {
	from := 0
	for from <= len(haystack) {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return false
		}
		pos := from + idx
		if pos == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(haystack[:pos])
		if !isWordRune(prev) || !startsWithWordRune(needle) {
			return true
		}
		_, size := utf8.DecodeRuneInString(haystack[pos:])
		from = pos + size
	}
	return false
}

func startsWithWordRune(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
