// Package sorter orders flat lists for table display.
package sorter

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// Sort keys.
const (
	KeyName              = "name"
	KeyPath              = "fullHierarchyPath"
	KeyType              = "type"
	KeySearchVolume      = "searchVolume"
	KeyKeywordDifficulty = "keywordDifficulty"
	KeyCPC               = "cpc"
	KeyTotalKeywords     = "totalKeywords"
	KeyTotalClusters     = "totalClusters"
	KeyID                = "id"
)

// Spec selects a sort column and direction.
type Spec struct {
	Key       string `yaml:"key" toml:"key" json:"key"`
	Direction string `yaml:"direction" toml:"direction" json:"direction"`
}

// ParseSpec parses "key" or "key:direction". Empty input returns nil.
func ParseSpec(s string) *Spec {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	key, dir, _ := strings.Cut(s, ":")
	return &Spec{Key: strings.TrimSpace(key), Direction: strings.ToLower(strings.TrimSpace(dir))}
}

// Comparator compares two strings, returning <0, 0 or >0.
type Comparator func(a, b string) int

// KeywordComparator orders strings starting with a letter before strings
// starting with a digit, before everything else. Ties within a category are
// broken by a case-insensitive collation. The returned comparator is not safe
// for concurrent use.
func KeywordComparator() Comparator {
	coll := newCollator()
	return func(a, b string) int {
		if ca, cb := category(a), category(b); ca != cb {
			return ca - cb
		}
		return coll.CompareString(a, b)
	}
}

func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

func category(s string) int {
	r, _ := utf8.DecodeRuneInString(s)
	switch {
	case s == "":
		return 2
	case unicode.IsLetter(r):
		return 0
	case unicode.IsDigit(r):
		return 1
	}
	return 2
}

// Sort returns a stably sorted copy of list. A nil spec sorts by name
// ascending; a nil comparator uses KeywordComparator.
func Sort(list []taxonomy.FlatRecord, spec *Spec, cmp Comparator) []taxonomy.FlatRecord {
	if cmp == nil {
		cmp = KeywordComparator()
	}
	if spec == nil {
		spec = &Spec{Key: KeyName, Direction: Asc}
	}

	out := make([]taxonomy.FlatRecord, len(list))
	copy(out, list)

	compare := comparatorFor(spec.Key, cmp)
	desc := spec.Direction == Desc
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j])
		if desc {
			c = -c
		}
		return c < 0
	})
	return out
}

func comparatorFor(key string, text Comparator) func(a, b taxonomy.FlatRecord) int {
	switch key {
	case KeyName:
		return func(a, b taxonomy.FlatRecord) int { return text(a.Name, b.Name) }
	case KeyPath:
		return func(a, b taxonomy.FlatRecord) int { return text(a.FullHierarchyPath, b.FullHierarchyPath) }
	case KeyType:
		return func(a, b taxonomy.FlatRecord) int { return text(a.Type.String(), b.Type.String()) }
	case KeyID:
		coll := newCollator()
		return func(a, b taxonomy.FlatRecord) int { return coll.CompareString(a.ID, b.ID) }
	}
	if _, ok := numericField(taxonomy.FlatRecord{}, key); ok {
		return func(a, b taxonomy.FlatRecord) int {
			va, _ := numericField(a, key)
			vb, _ := numericField(b, key)
			switch {
			case va < vb:
				return -1
			case va > vb:
				return 1
			}
			return 0
		}
	}
	// Unknown keys name no field, so every pair ties and input order stays.
	return func(a, b taxonomy.FlatRecord) int { return 0 }
}

func numericField(rec taxonomy.FlatRecord, key string) (float64, bool) {
	switch key {
	case KeySearchVolume:
		return rec.SearchVolume, true
	case KeyKeywordDifficulty:
		return rec.KeywordDifficulty, true
	case KeyCPC:
		return rec.CPC, true
	case KeyTotalKeywords:
		return float64(rec.TotalKeywords), true
	case KeyTotalClusters:
		return float64(rec.TotalClusters), true
	}
	return 0, false
}

// Paginate returns the 1-based page of list and the total page count. The
// page is clamped into range; size <= 0 returns the whole list as one page.
func Paginate(list []taxonomy.FlatRecord, page, size int) ([]taxonomy.FlatRecord, int) {
	if size <= 0 || len(list) == 0 {
		return list, 1
	}
	pages := (len(list) + size - 1) / size
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := start + size
	if end > len(list) {
		end = len(list)
	}
	return list[start:end], pages
}
