package taxonomy

// HierarchySeparator joins ancestor names in hierarchy paths.
const HierarchySeparator = " > "

// Metadata carries the cluster descriptors produced by the clustering step.
type Metadata struct {
	CentroidKeywords string `json:"centroid_keywords"`
	TfidfKeywords    string `json:"tfidf_keywords"`
	ClusterSize      int    `json:"cluster_size,omitempty"`
	DiversitySamples string `json:"keyword_diversity_samples,omitempty"`
}

// SearchFields returns the metadata strings that take part in free-text search.
func (m *Metadata) SearchFields() []string {
	if m == nil {
		return nil
	}
	return []string{m.CentroidKeywords, m.TfidfKeywords}
}

// Keyword is a leaf attached to a cluster.
type Keyword struct {
	Keyword           string  `json:"keyword"`
	SearchVolume      int     `json:"searchVolume"`
	KeywordDifficulty float64 `json:"keywordDifficulty"`
	CPC               float64 `json:"cpc"`

	// NoKD and NoCPC mark values the input did not supply. The value fields
	// then read 0 and the keyword is left out of that average.
	NoKD  bool `json:"-"`
	NoCPC bool `json:"-"`
}

// Node is a pillar, parent topic, subtopic or cluster. Node identity is the
// pointer: filtered views build new nodes rather than mutating canonical ones.
type Node struct {
	Name          string    `json:"name"`
	Type          Type      `json:"type"`
	Size          float64   `json:"size"`
	TotalKeywords int       `json:"totalKeywords"`
	TotalClusters int       `json:"totalClusters"`
	AverageKD     float64   `json:"averageKD"`
	AverageCPC    float64   `json:"averageCPC"`
	Metadata      *Metadata `json:"metadata,omitempty"`
	Children      []*Node   `json:"children,omitempty"`
	Keywords      []Keyword `json:"keywords,omitempty"`
}

// ShallowCopy returns a copy of n sharing its children and keywords slices.
func (n *Node) ShallowCopy() *Node {
	cp := *n
	return &cp
}

// Walk visits nodes and their descendants depth-first in sibling order.
// ancestors holds the names above each visited node, root first. Returning
// false from fn skips the node's subtree.
func Walk(nodes []*Node, fn func(n *Node, ancestors []string) bool) {
	walk(nodes, nil, fn)
}

func walk(nodes []*Node, ancestors []string, fn func(n *Node, ancestors []string) bool) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if !fn(n, ancestors) {
			continue
		}
		walk(n.Children, append(ancestors[:len(ancestors):len(ancestors)], n.Name), fn)
	}
}

// FlatRecord is a denormalized row for one node or keyword.
type FlatRecord struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Type              Type      `json:"type"`
	SearchVolume      float64   `json:"searchVolume"`
	KeywordDifficulty float64   `json:"keywordDifficulty"`
	CPC               float64   `json:"cpc"`
	TotalKeywords     int       `json:"totalKeywords"`
	TotalClusters     int       `json:"totalClusters"`
	FullHierarchyPath string    `json:"fullHierarchyPath"`
	Metadata          *Metadata `json:"metadata,omitempty"`
	// Keywords lists a cluster's keyword strings; empty for other types.
	Keywords []string `json:"keywords,omitempty"`
}

// FlatIndex holds one ordered flat list per type.
type FlatIndex map[Type][]FlatRecord

// Count returns the number of records across all types.
func (f FlatIndex) Count() int {
	total := 0
	for _, list := range f {
		total += len(list)
	}
	return total
}
