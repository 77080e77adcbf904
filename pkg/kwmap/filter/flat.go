package filter

import (
	"strings"

	"github.com/cognicore/kwmap/pkg/kwmap/search"
	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

// Flat narrows one flat list in four stages: pillar scope, numeric ranges,
// exclusions, then search terms. The result is a new slice in input order.
func Flat(list []taxonomy.FlatRecord, cfg Config, selectedPillar string, terms []search.Term, typ taxonomy.Type, excl search.Exclusions) []taxonomy.FlatRecord {
	out := make([]taxonomy.FlatRecord, 0, len(list))
	for _, rec := range list {
		if !inPillar(rec, selectedPillar) {
			continue
		}
		if !cfg.matchRanges(rec.SearchVolume, rec.KeywordDifficulty, rec.CPC) {
			continue
		}
		if excl.Blocks(rec.Name) {
			continue
		}
		if !matchRecord(rec, typ, terms) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func inPillar(rec taxonomy.FlatRecord, pillar string) bool {
	if !ScopedToPillar(pillar) {
		return true
	}
	if rec.Type == taxonomy.Pillar && rec.Name == pillar {
		return true
	}
	if rec.FullHierarchyPath == "" {
		return false
	}
	return strings.HasPrefix(rec.FullHierarchyPath, pillar+taxonomy.HierarchySeparator)
}

func matchRecord(rec taxonomy.FlatRecord, typ taxonomy.Type, terms []search.Term) bool {
	if len(terms) == 0 {
		return true
	}
	if search.MatchAny(rec.Name, terms) {
		return true
	}
	if typ == taxonomy.Keywords {
		return false
	}
	return search.MatchAnyField(rec.Metadata.SearchFields(), terms)
}
