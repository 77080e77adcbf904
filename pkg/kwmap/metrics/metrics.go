// Package metrics computes volume-weighted aggregates over taxonomy subtrees.
package metrics

import "github.com/cognicore/kwmap/pkg/kwmap/taxonomy"

// Metrics are the aggregates shown for a node.
type Metrics struct {
	TotalSearchVolume float64 `json:"totalSearchVolume"`
	TotalKeywords     int     `json:"totalKeywords"`
	TotalClusters     int     `json:"totalClusters"`
	AverageKD         float64 `json:"averageKD"`
	AverageCPC        float64 `json:"averageCPC"`
}

// Sums are the raw accumulators of a subtree. Averages are only derived at
// the end so that parents never average already-averaged children.
type Sums struct {
	Volume   float64
	Keywords int
	Clusters int

	KD  metricSums
	CPC metricSums
}

type metricSums struct {
	weighted float64 // Σ value×volume
	weight   float64 // Σ volume of items that supplied a value
	simple   float64 // Σ value
	count    int
}

func (m *metricSums) add(value, volume float64) {
	m.weighted += value * volume
	m.weight += volume
	m.simple += value
	m.count++
}

func (m *metricSums) merge(o metricSums) {
	m.weighted += o.weighted
	m.weight += o.weight
	m.simple += o.simple
	m.count += o.count
}

func (m metricSums) average() float64 {
	switch {
	case m.weight > 0:
		return m.weighted / m.weight
	case m.count > 0:
		return m.simple / float64(m.count)
	}
	return 0
}

func (s *Sums) merge(o Sums) {
	s.Volume += o.Volume
	s.Keywords += o.Keywords
	s.Clusters += o.Clusters
	s.KD.merge(o.KD)
	s.CPC.merge(o.CPC)
}

// Metrics derives the aggregates from the accumulators.
func (s Sums) Metrics() Metrics {
	return Metrics{
		TotalSearchVolume: s.Volume,
		TotalKeywords:     s.Keywords,
		TotalClusters:     s.Clusters,
		AverageKD:         s.KD.average(),
		AverageCPC:        s.CPC.average(),
	}
}

// Cache memoizes subtree sums by node identity. A cache must only be used
// for nodes of one tree snapshot.
type Cache map[*taxonomy.Node]Sums

// NewCache returns an empty cache.
func NewCache() Cache {
	return make(Cache)
}

// Compute aggregates node with a fresh cache.
func Compute(node *taxonomy.Node) Metrics {
	return Aggregate(node, NewCache())
}

// Aggregate computes the metrics of node's subtree, reading and filling cache.
// A nil cache disables memoization.
func Aggregate(node *taxonomy.Node, cache Cache) Metrics {
	return Collect(node, cache).Metrics()
}

// Collect returns the accumulators of node's subtree.
func Collect(node *taxonomy.Node, cache Cache) Sums {
	if node == nil {
		return Sums{}
	}
	if cache != nil {
		if s, ok := cache[node]; ok {
			return s
		}
	}

	var s Sums
	if node.Type == taxonomy.Cluster {
		s.Clusters = 1
		for _, kw := range node.Keywords {
			volume := float64(kw.SearchVolume)
			s.Volume += volume
			s.Keywords++
			if !kw.NoKD {
				s.KD.add(kw.KeywordDifficulty, volume)
			}
			if !kw.NoCPC {
				s.CPC.add(kw.CPC, volume)
			}
		}
	}
	for _, child := range node.Children {
		s.merge(Collect(child, cache))
	}

	if cache != nil {
		cache[node] = s
	}
	return s
}

// Total aggregates a forest as if its roots shared one parent.
func Total(nodes []*taxonomy.Node) Metrics {
	cache := NewCache()
	var s Sums
	for _, n := range nodes {
		s.merge(Collect(n, cache))
	}
	return s.Metrics()
}

// Refresh returns copies of nodes, recursively, with Size, TotalKeywords,
// TotalClusters, AverageKD and AverageCPC set from their subtree aggregates.
func Refresh(nodes []*taxonomy.Node) []*taxonomy.Node {
	return refresh(nodes, NewCache())
}

func refresh(nodes []*taxonomy.Node, cache Cache) []*taxonomy.Node {
	if nodes == nil {
		return nil
	}
	out := make([]*taxonomy.Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		m := Aggregate(n, cache)
		cp := n.ShallowCopy()
		cp.Size = m.TotalSearchVolume
		cp.TotalKeywords = m.TotalKeywords
		cp.TotalClusters = m.TotalClusters
		cp.AverageKD = m.AverageKD
		cp.AverageCPC = m.AverageCPC
		cp.Children = refresh(n.Children, cache)
		out = append(out, cp)
	}
	return out
}
