package ingest

import (
	"strings"

	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

// Dataset is one generation of normalized data. It is read-only once built.
type Dataset struct {
	Tree       []*taxonomy.Node
	Flat       taxonomy.FlatIndex
	Statistics *Statistics
}

// Pillars returns the names of the top-level pillar nodes in tree order.
func (d *Dataset) Pillars() []string {
	var names []string
	for _, n := range d.Tree {
		if n.Type == taxonomy.Pillar {
			names = append(names, n.Name)
		}
	}
	return names
}

// List returns the flat list for t.
func (d *Dataset) List(t taxonomy.Type) []taxonomy.FlatRecord {
	return d.Flat[t]
}

// Normalizer builds datasets from raw nodes.
type Normalizer struct {
	ids *IDGenerator
}

// NewNormalizer creates a normalizer. A nil generator gets a fresh one.
func NewNormalizer(ids *IDGenerator) *Normalizer {
	if ids == nil {
		ids = NewIDGenerator()
	}
	return &Normalizer{ids: ids}
}

// Normalize copies raw into a canonical tree, dropping every keyword whose
// exact string was already seen earlier in depth-first order, and builds the
// flat lists from the deduplicated tree.
func (n *Normalizer) Normalize(raw []RawNode) *Dataset {
	seen := make(map[string]struct{})
	tree := copyNodes(raw, 0, seen)
	return &Dataset{
		Tree: tree,
		Flat: n.flatten(tree),
	}
}

// NormalizeDocument normalizes doc.Data and carries its statistics.
func (n *Normalizer) NormalizeDocument(doc Document) *Dataset {
	ds := n.Normalize(doc.Data)
	ds.Statistics = doc.Statistics
	return ds
}

func copyNodes(raw []RawNode, depth int, seen map[string]struct{}) []*taxonomy.Node {
	if len(raw) == 0 {
		return nil
	}
	out := make([]*taxonomy.Node, 0, len(raw))
	for i := range raw {
		out = append(out, copyNode(&raw[i], depth, seen))
	}
	return out
}

func copyNode(r *RawNode, depth int, seen map[string]struct{}) *taxonomy.Node {
	node := &taxonomy.Node{
		Name:          r.Name,
		Type:          inferType(r, depth),
		Size:          nonNegative(r.Size.Float()),
		TotalKeywords: r.TotalKeywords.Int(),
		TotalClusters: r.TotalClusters.Int(),
		AverageKD:     r.AverageKD.Float(),
		AverageCPC:    nonNegative(r.AverageCPC.Float()),
	}
	if r.Metadata != nil {
		node.Metadata = &taxonomy.Metadata{
			CentroidKeywords: r.Metadata.CentroidKeywords,
			TfidfKeywords:    r.Metadata.TfidfKeywords,
			ClusterSize:      r.Metadata.ClusterSize.Int(),
			DiversitySamples: r.Metadata.DiversitySamples,
		}
	}

	// Preorder: a node claims its keywords before any descendant does.
	if node.Type == taxonomy.Cluster {
		node.Keywords = dedupeKeywords(r.Keywords, seen)
	}
	node.Children = copyNodes(r.Children, depth+1, seen)
	return node
}

func dedupeKeywords(raw []RawKeyword, seen map[string]struct{}) []taxonomy.Keyword {
	var out []taxonomy.Keyword
	for _, kw := range raw {
		if strings.TrimSpace(kw.Keyword) == "" {
			continue
		}
		if _, dup := seen[kw.Keyword]; dup {
			continue
		}
		seen[kw.Keyword] = struct{}{}
		kd, hasKD := optional(kw.KeywordDifficulty)
		cpc, hasCPC := optional(kw.CPC)
		out = append(out, taxonomy.Keyword{
			Keyword:           kw.Keyword,
			SearchVolume:      int(nonNegative(kw.SearchVolume.Float())),
			KeywordDifficulty: kd,
			CPC:               nonNegative(cpc),
			NoKD:              !hasKD,
			NoCPC:             !hasCPC,
		})
	}
	return out
}

// inferType fills in a missing type: nodes with keywords are clusters,
// otherwise the level follows the depth. A keyword leaf tag on a node is
// treated as missing.
func inferType(r *RawNode, depth int) taxonomy.Type {
	if r.Type.IsNode() {
		return r.Type
	}
	if len(r.Keywords) > 0 {
		return taxonomy.Cluster
	}
	switch depth {
	case 0:
		return taxonomy.Pillar
	case 1:
		return taxonomy.Parent
	}
	if len(r.Children) == 0 {
		return taxonomy.Cluster
	}
	return taxonomy.Subtopic
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func (n *Normalizer) flatten(tree []*taxonomy.Node) taxonomy.FlatIndex {
	flat := make(taxonomy.FlatIndex, len(taxonomy.AllTypes))
	for _, t := range taxonomy.AllTypes {
		flat[t] = []taxonomy.FlatRecord{}
	}

	taxonomy.Walk(tree, func(node *taxonomy.Node, ancestors []string) bool {
		depth := len(ancestors)
		path := joinPath(ancestors, node.Name)

		rec := taxonomy.FlatRecord{
			ID:                n.ids.Next(node.Type, depth),
			Name:              node.Name,
			Type:              node.Type,
			SearchVolume:      node.Size,
			KeywordDifficulty: node.AverageKD,
			CPC:               node.AverageCPC,
			TotalKeywords:     node.TotalKeywords,
			TotalClusters:     node.TotalClusters,
			FullHierarchyPath: path,
			Metadata:          node.Metadata,
		}
		if node.Type == taxonomy.Cluster && len(node.Keywords) > 0 {
			rec.Keywords = make([]string, len(node.Keywords))
			for i, kw := range node.Keywords {
				rec.Keywords[i] = kw.Keyword
			}
		}
		flat[node.Type] = append(flat[node.Type], rec)

		for _, kw := range node.Keywords {
			flat[taxonomy.Keywords] = append(flat[taxonomy.Keywords], taxonomy.FlatRecord{
				ID:                n.ids.Next(taxonomy.Keywords, depth+1),
				Name:              kw.Keyword,
				Type:              taxonomy.Keywords,
				SearchVolume:      float64(kw.SearchVolume),
				KeywordDifficulty: kw.KeywordDifficulty,
				CPC:               kw.CPC,
				FullHierarchyPath: path + taxonomy.HierarchySeparator + kw.Keyword,
			})
		}
		return true
	})
	return flat
}

func joinPath(ancestors []string, name string) string {
	if len(ancestors) == 0 {
		return name
	}
	return strings.Join(ancestors, taxonomy.HierarchySeparator) + taxonomy.HierarchySeparator + name
}

// RawFromTree converts canonical nodes back into raw input form.
func RawFromTree(nodes []*taxonomy.Node) []RawNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]RawNode, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		raw := RawNode{
			Name:          n.Name,
			Type:          n.Type,
			Size:          Number(n.Size),
			TotalKeywords: Number(n.TotalKeywords),
			TotalClusters: Number(n.TotalClusters),
			AverageKD:     Number(n.AverageKD),
			AverageCPC:    Number(n.AverageCPC),
			Children:      RawFromTree(n.Children),
		}
		if n.Metadata != nil {
			raw.Metadata = &RawMetadata{
				CentroidKeywords: n.Metadata.CentroidKeywords,
				TfidfKeywords:    n.Metadata.TfidfKeywords,
				ClusterSize:      Number(n.Metadata.ClusterSize),
				DiversitySamples: n.Metadata.DiversitySamples,
			}
		}
		for _, kw := range n.Keywords {
			rk := RawKeyword{
				Keyword:      kw.Keyword,
				SearchVolume: Number(kw.SearchVolume),
			}
			if !kw.NoKD {
				rk.KeywordDifficulty = numberPtr(kw.KeywordDifficulty)
			}
			if !kw.NoCPC {
				rk.CPC = numberPtr(kw.CPC)
			}
			raw.Keywords = append(raw.Keywords, rk)
		}
		out = append(out, raw)
	}
	return out
}
