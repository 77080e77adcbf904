// Package filter narrows the canonical tree and the flat lists under a filter
// configuration, search terms and an exclusion set.
package filter

import (
	"github.com/cognicore/kwmap/pkg/kwmap/rangefilter"
	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

// AllPillars disables pillar scoping.
const AllPillars = "all"

// Config is the user-controlled filter configuration.
type Config struct {
	NodeTypes    taxonomy.TypeSet
	PillarTopic  string
	SearchVolume rangefilter.Filter
	Difficulty   rangefilter.Filter
	CPC          rangefilter.Filter

	// Ranges resolves named range selections.
	Ranges rangefilter.Catalog
}

// DefaultConfig selects every type and every pillar, with no range limits.
func DefaultConfig() Config {
	return Config{
		NodeTypes:    taxonomy.AllSelected(),
		PillarTopic:  AllPillars,
		SearchVolume: rangefilter.Named(rangefilter.Any),
		Difficulty:   rangefilter.Named(rangefilter.Any),
		CPC:          rangefilter.Named(rangefilter.Any),
		Ranges:       rangefilter.DefaultCatalog(),
	}
}

// ScopedToPillar reports whether a specific pillar is selected.
func ScopedToPillar(pillar string) bool {
	return pillar != "" && pillar != AllPillars
}

func (c Config) matchRanges(volume, difficulty, cpc float64) bool {
	return rangefilter.Match(volume, c.SearchVolume, c.Ranges.SearchVolume) &&
		rangefilter.Match(difficulty, c.Difficulty, c.Ranges.Difficulty) &&
		rangefilter.Match(cpc, c.CPC, c.Ranges.CPC)
}
