// Package kwmap explores keyword taxonomies: it normalizes a nested document
// into a canonical tree and per-type flat lists, then filters, sorts and
// aggregates them on demand.
package kwmap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/kwmap/pkg/kwmap/filter"
	"github.com/cognicore/kwmap/pkg/kwmap/ingest"
	"github.com/cognicore/kwmap/pkg/kwmap/internalerr"
	"github.com/cognicore/kwmap/pkg/kwmap/metrics"
	"github.com/cognicore/kwmap/pkg/kwmap/search"
	"github.com/cognicore/kwmap/pkg/kwmap/sorter"
	"github.com/cognicore/kwmap/pkg/kwmap/store"
	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

// Explorer is the main facade over the ingest, filter and sort stages
type Explorer struct {
	normalizer  *ingest.Normalizer
	store       store.Store
	pillarNames map[string]string
	logger      *zap.Logger
}

// Options configures an Explorer
type Options struct {
	Logger *zap.Logger
	// Store receives snapshots from Export. Optional.
	Store store.Store
	// PillarNames renames pillars during ingest.
	PillarNames map[string]string
	IDs         *ingest.IDGenerator
}

// New creates an Explorer with the given dependencies
func New(opts Options) *Explorer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Explorer{
		normalizer:  ingest.NewNormalizer(opts.IDs),
		store:       opts.Store,
		pillarNames: opts.PillarNames,
		logger:      logger,
	}
}

// Close releases the snapshot store, if any.
func (e *Explorer) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Ingest parses raw and builds a new dataset. On failure no dataset is
// returned and the error is an *ingest.ParseError.
func (e *Explorer) Ingest(raw []byte) (*ingest.Dataset, error) {
	doc, err := ingest.Parse(raw)
	if err != nil {
		e.logger.Warn("ingest failed", zap.Int("bytes", len(raw)), zap.Error(err))
		return nil, err
	}
	ds := e.build(doc.Data)
	ds.Statistics = doc.Statistics
	return ds, nil
}

// IngestPreloaded builds a dataset from already structured nodes.
func (e *Explorer) IngestPreloaded(nodes []ingest.RawNode) *ingest.Dataset {
	return e.build(nodes)
}

func (e *Explorer) build(nodes []ingest.RawNode) *ingest.Dataset {
	if len(e.pillarNames) > 0 {
		var renamed int
		nodes, renamed = ingest.RenamePillars(nodes, e.pillarNames)
		if renamed > 0 {
			e.logger.Debug("renamed pillars", zap.Int("count", renamed))
		}
	}
	ds := e.normalizer.Normalize(nodes)
	e.logger.Info("dataset built",
		zap.Int("pillars", len(ds.List(taxonomy.Pillar))),
		zap.Int("clusters", len(ds.List(taxonomy.Cluster))),
		zap.Int("keywords", len(ds.List(taxonomy.Keywords))),
	)
	return ds
}

// FilteredTree returns the hierarchical view of ds. Node-level content checks
// are skipped in this view; cfg.PillarTopic scopes the top level.
func (e *Explorer) FilteredTree(ds *ingest.Dataset, cfg filter.Config, terms []search.Term, excl search.Exclusions) []*taxonomy.Node {
	if ds == nil {
		return nil
	}
	nodes := filter.ScopeToPillar(ds.Tree, cfg.PillarTopic)
	return filter.Tree(nodes, cfg, terms, false, excl)
}

// FilteredFlat returns the flat list of typ in ds narrowed by every filter.
func (e *Explorer) FilteredFlat(ds *ingest.Dataset, cfg filter.Config, selectedPillar string, terms []search.Term, typ taxonomy.Type, excl search.Exclusions) []taxonomy.FlatRecord {
	if ds == nil {
		return nil
	}
	return filter.Flat(ds.List(typ), cfg, selectedPillar, terms, typ, excl)
}

// SortFlat returns list ordered by spec. A nil spec sorts by name.
func (e *Explorer) SortFlat(list []taxonomy.FlatRecord, spec *sorter.Spec) []taxonomy.FlatRecord {
	return sorter.Sort(list, spec, sorter.KeywordComparator())
}

// Metrics aggregates node's subtree with a fresh cache.
func (e *Explorer) Metrics(node *taxonomy.Node) metrics.Metrics {
	return metrics.Compute(node)
}

// Export writes the flat lists of ds to the configured store.
func (e *Explorer) Export(ctx context.Context, ds *ingest.Dataset) error {
	if e.store == nil {
		return fmt.Errorf("%w: no export store configured", internalerr.ErrInvalidInput)
	}
	if ds == nil {
		return fmt.Errorf("%w: no dataset", internalerr.ErrInvalidInput)
	}
	if err := e.store.WriteSnapshot(ctx, ds.Flat); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	e.logger.Info("snapshot exported", zap.Int("records", ds.Flat.Count()))
	return nil
}
