package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/kwmap/pkg/kwmap/filter"
	"github.com/cognicore/kwmap/pkg/kwmap/rangefilter"
	"github.com/cognicore/kwmap/pkg/kwmap/search"
	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

// filterFlags are the filter controls shared by tree, flat and export.
type filterFlags struct {
	pillar  string
	search  string
	exclude string
	types   []string
	volume  string
	kd      string
	cpc     string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.pillar, "pillar", "", `Pillar name, or "all"`)
	fl.StringVarP(&f.search, "search", "s", "", `Comma separated terms; quote a term for exact match`)
	fl.StringVarP(&f.exclude, "exclude", "x", "", "Comma separated exclusions, added to the configured ones")
	fl.StringSliceVar(&f.types, "types", nil, "Node types to show (pillar,parent,subtopic,cluster,keywords)")
	fl.StringVar(&f.volume, "volume", "", `Search volume range: a bucket key, "any" or "custom:min:max"`)
	fl.StringVar(&f.kd, "kd", "", "Keyword difficulty range, same forms as --volume")
	fl.StringVar(&f.cpc, "cpc", "", "CPC range, same forms as --volume")
}

// resolve applies the flags on top of base.
func (f *filterFlags) resolve(base filter.Config, baseExcl search.Exclusions) (filter.Config, []search.Term, search.Exclusions, error) {
	cfg := base
	if f.pillar != "" {
		cfg.PillarTopic = f.pillar
	}
	if len(f.types) > 0 {
		var types []taxonomy.Type
		for _, name := range f.types {
			t, err := taxonomy.ParseType(name)
			if err != nil {
				return cfg, nil, nil, fmt.Errorf("--types: %w", err)
			}
			types = append(types, t)
		}
		cfg.NodeTypes = taxonomy.SelectOnly(types...)
	}

	dims := []struct {
		flag   string
		value  string
		target *rangefilter.Filter
		named  rangefilter.Ranges
	}{
		{"volume", f.volume, &cfg.SearchVolume, cfg.Ranges.SearchVolume},
		{"kd", f.kd, &cfg.Difficulty, cfg.Ranges.Difficulty},
		{"cpc", f.cpc, &cfg.CPC, cfg.Ranges.CPC},
	}
	for _, d := range dims {
		if d.value == "" {
			continue
		}
		rf := parseRangeFlag(d.value)
		if sel := rf.Selection; sel != rangefilter.Any && sel != rangefilter.Custom {
			if _, ok := d.named[sel]; !ok {
				log.Warn("unknown range bucket, not filtering", zap.String("flag", d.flag), zap.String("bucket", sel))
			}
		}
		*d.target = rf
	}

	excl := search.NewExclusions(baseExcl.Values()...)
	for _, v := range search.ParseExclusions(f.exclude).Values() {
		excl.Add(v)
	}
	return cfg, search.ParseTerms(f.search), excl, nil
}

// parseRangeFlag accepts "any", a bucket key, or "custom:min:max" where
// either bound may be empty.
func parseRangeFlag(v string) rangefilter.Filter {
	v = strings.TrimSpace(v)
	rest, ok := strings.CutPrefix(v, rangefilter.Custom+":")
	if !ok {
		return rangefilter.Named(v)
	}
	lo, hi, _ := strings.Cut(rest, ":")
	return rangefilter.Filter{
		Selection: rangefilter.Custom,
		CustomMin: strings.TrimSpace(lo),
		CustomMax: strings.TrimSpace(hi),
	}
}
