package config

import (
	"fmt"

	"github.com/cognicore/kwmap/pkg/kwmap/filter"
	"github.com/cognicore/kwmap/pkg/kwmap/internalerr"
	"github.com/cognicore/kwmap/pkg/kwmap/rangefilter"
	"github.com/cognicore/kwmap/pkg/kwmap/search"
	"github.com/cognicore/kwmap/pkg/kwmap/sorter"
	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

// Loader loads the configuration file and constructs components
type Loader struct {
	Path string
}

// Components holds the explorer settings resolved from configuration
type Components struct {
	Filter      filter.Config
	Exclusions  search.Exclusions
	Sort        *sorter.Spec
	PageSize    int
	PillarNames map[string]string
}

// Load reads the configuration file, or Defaults when Path is empty, and
// returns validated components.
func (l *Loader) Load() (*Components, error) {
	f := Defaults()
	if l.Path != "" {
		loaded, err := LoadFile(l.Path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		f = loaded
	}
	return Resolve(f)
}

// Resolve validates f and turns it into components.
func Resolve(f *File) (*Components, error) {
	if f.PageSize < 0 {
		return nil, fmt.Errorf("%w: page_size must not be negative, got %d", internalerr.ErrInvalidConfig, f.PageSize)
	}
	if err := validateCatalog(f.Ranges); err != nil {
		return nil, err
	}

	cfg := filter.DefaultConfig()
	cfg.Ranges = f.Ranges
	cfg.PillarTopic = f.Pillar

	cfg.NodeTypes = taxonomy.TypeSet{}
	for _, name := range f.NodeTypes {
		t, err := taxonomy.ParseType(name)
		if err != nil {
			return nil, fmt.Errorf("%w: node_types: %v", internalerr.ErrInvalidConfig, err)
		}
		cfg.NodeTypes[t] = true
	}

	spec := sorter.ParseSpec(f.DefaultSort)
	if spec != nil && spec.Direction != "" && spec.Direction != sorter.Asc && spec.Direction != sorter.Desc {
		return nil, fmt.Errorf("%w: default_sort direction %q", internalerr.ErrInvalidConfig, spec.Direction)
	}

	names := make(map[string]string, len(f.PillarNames))
	for k, v := range f.PillarNames {
		names[k] = v
	}

	return &Components{
		Filter:      cfg,
		Exclusions:  search.NewExclusions(f.Exclusions...),
		Sort:        spec,
		PageSize:    f.PageSize,
		PillarNames: names,
	}, nil
}

func validateCatalog(c rangefilter.Catalog) error {
	dims := []struct {
		name   string
		ranges rangefilter.Ranges
	}{
		{"search_volume", c.SearchVolume},
		{"difficulty", c.Difficulty},
		{"cpc", c.CPC},
	}
	for _, d := range dims {
		for key, r := range d.ranges {
			if key == rangefilter.Any || key == rangefilter.Custom {
				return fmt.Errorf("%w: ranges.%s: %q is reserved", internalerr.ErrInvalidConfig, d.name, key)
			}
			if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
				return fmt.Errorf("%w: ranges.%s.%s: min %v exceeds max %v", internalerr.ErrInvalidConfig, d.name, key, *r.Min, *r.Max)
			}
		}
	}
	return nil
}
