package filter

import (
	"github.com/cognicore/kwmap/pkg/kwmap/search"
	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

// Tree returns a filtered copy of nodes. A node is kept when it has a
// surviving child, when its type is selected and it passes its own checks, or
// (clusters only) when keywords are selected and one of its keywords survives.
//
// With contentAtEveryLevel false the node-level range, search and exclusion
// checks are skipped; only type selection and keyword filtering apply.
// Scalar fields are copied unchanged from the input.
func Tree(nodes []*taxonomy.Node, cfg Config, terms []search.Term, contentAtEveryLevel bool, excl search.Exclusions) []*taxonomy.Node {
	f := treeFilter{
		cfg:        cfg,
		terms:      terms,
		everyLevel: contentAtEveryLevel,
		excl:       excl,
	}
	return f.filterNodes(nodes)
}

type treeFilter struct {
	cfg        Config
	terms      []search.Term
	everyLevel bool
	excl       search.Exclusions
}

func (f *treeFilter) filterNodes(nodes []*taxonomy.Node) []*taxonomy.Node {
	var out []*taxonomy.Node
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if cp := f.filterNode(n); cp != nil {
			out = append(out, cp)
		}
	}
	return out
}

func (f *treeFilter) filterNode(n *taxonomy.Node) *taxonomy.Node {
	children := f.filterNodes(n.Children)

	keywordsFiltered := n.Type == taxonomy.Cluster && f.cfg.NodeTypes.Has(taxonomy.Keywords)
	var keywords []taxonomy.Keyword
	if keywordsFiltered {
		keywords = f.filterKeywords(n.Keywords)
	} else if len(n.Keywords) > 0 {
		keywords = append([]taxonomy.Keyword(nil), n.Keywords...)
	}

	switch {
	case len(children) > 0:
	case f.cfg.NodeTypes.Has(n.Type) && f.passesContent(n):
	case keywordsFiltered && len(keywords) > 0:
	default:
		return nil
	}

	cp := n.ShallowCopy()
	cp.Children = children
	cp.Keywords = keywords
	return cp
}

func (f *treeFilter) passesContent(n *taxonomy.Node) bool {
	if !f.everyLevel {
		return true
	}
	if f.excl.Blocks(n.Name) {
		return false
	}
	if !f.cfg.matchRanges(n.Size, n.AverageKD, n.AverageCPC) {
		return false
	}
	return matchNode(n.Name, n.Metadata, f.terms)
}

func (f *treeFilter) filterKeywords(kws []taxonomy.Keyword) []taxonomy.Keyword {
	var out []taxonomy.Keyword
	for _, kw := range kws {
		if f.excl.Blocks(kw.Keyword) {
			continue
		}
		if !search.MatchAny(kw.Keyword, f.terms) {
			continue
		}
		if !f.cfg.matchRanges(float64(kw.SearchVolume), kw.KeywordDifficulty, kw.CPC) {
			continue
		}
		out = append(out, kw)
	}
	return out
}

// matchNode matches terms against a node name, falling back to its metadata.
func matchNode(name string, meta *taxonomy.Metadata, terms []search.Term) bool {
	if search.MatchAny(name, terms) {
		return true
	}
	return search.MatchAnyField(meta.SearchFields(), terms)
}

// ScopeToPillar keeps only the top-level pillars named pillar. Any other
// value than a specific pillar returns nodes unchanged.
func ScopeToPillar(nodes []*taxonomy.Node, pillar string) []*taxonomy.Node {
	if !ScopedToPillar(pillar) {
		return nodes
	}
	var out []*taxonomy.Node
	for _, n := range nodes {
		if n != nil && n.Type == taxonomy.Pillar && n.Name == pillar {
			out = append(out, n)
		}
	}
	return out
}
