package rangefilter

// Catalog holds the named buckets offered for each dimension.
type Catalog struct {
	SearchVolume Ranges `yaml:"search_volume" toml:"search_volume" json:"searchVolume"`
	Difficulty   Ranges `yaml:"difficulty" toml:"difficulty" json:"difficulty"`
	CPC          Ranges `yaml:"cpc" toml:"cpc" json:"cpc"`
}

// DefaultCatalog returns the buckets shown by default in the explorer.
func DefaultCatalog() Catalog {
	return Catalog{
		SearchVolume: Ranges{
			"0-10":         {Label: "0-10", Min: Bound(0), Max: Bound(10)},
			"11-100":       {Label: "11-100", Min: Bound(11), Max: Bound(100)},
			"101-1000":     {Label: "101-1K", Min: Bound(101), Max: Bound(1000)},
			"1001-10000":   {Label: "1K-10K", Min: Bound(1001), Max: Bound(10000)},
			"10001-100000": {Label: "10K-100K", Min: Bound(10001), Max: Bound(100000)},
			"100001+":      {Label: "100K+", Min: Bound(100001)},
		},
		Difficulty: Ranges{
			"very-easy": {Label: "Very easy (0-14)", Min: Bound(0), Max: Bound(14)},
			"easy":      {Label: "Easy (15-29)", Min: Bound(15), Max: Bound(29)},
			"possible":  {Label: "Possible (30-49)", Min: Bound(30), Max: Bound(49)},
			"difficult": {Label: "Difficult (50-69)", Min: Bound(50), Max: Bound(69)},
			"hard":      {Label: "Hard (70-84)", Min: Bound(70), Max: Bound(84)},
			"very-hard": {Label: "Very hard (85-100)", Min: Bound(85), Max: Bound(100)},
		},
		CPC: Ranges{
			"0-1":  {Label: "$0-$1", Min: Bound(0), Max: Bound(1)},
			"1-2":  {Label: "$1-$2", Min: Bound(1), Max: Bound(2)},
			"2-5":  {Label: "$2-$5", Min: Bound(2), Max: Bound(5)},
			"5-10": {Label: "$5-$10", Min: Bound(5), Max: Bound(10)},
			"10+":  {Label: "$10+", Min: Bound(10)},
		},
	}
}

// Merge returns c with every bucket in override added or replaced.
func (c Catalog) Merge(override Catalog) Catalog {
	return Catalog{
		SearchVolume: mergeRanges(c.SearchVolume, override.SearchVolume),
		Difficulty:   mergeRanges(c.Difficulty, override.Difficulty),
		CPC:          mergeRanges(c.CPC, override.CPC),
	}
}

func mergeRanges(base, override Ranges) Ranges {
	out := make(Ranges, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
