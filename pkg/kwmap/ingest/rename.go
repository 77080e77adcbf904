package ingest

import "github.com/cognicore/kwmap/pkg/kwmap/taxonomy"

// RenamePillars returns a copy of nodes where every pillar whose name is a
// key of mapping carries the mapped name, and the number of renamed pillars.
// Untyped nodes are judged by the type normalization would infer.
func RenamePillars(nodes []RawNode, mapping map[string]string) ([]RawNode, int) {
	return renamePillars(nodes, mapping, 0)
}

func renamePillars(nodes []RawNode, mapping map[string]string, depth int) ([]RawNode, int) {
	if len(nodes) == 0 {
		return nil, 0
	}
	renamed := 0
	out := make([]RawNode, len(nodes))
	for i, n := range nodes {
		if inferType(&n, depth) == taxonomy.Pillar {
			if friendly, ok := mapping[n.Name]; ok && friendly != "" {
				n.Name = friendly
				renamed++
			}
		}
		var count int
		n.Children, count = renamePillars(n.Children, mapping, depth+1)
		renamed += count
		out[i] = n
	}
	return out, renamed
}
