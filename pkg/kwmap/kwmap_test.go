package kwmap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cognicore/kwmap/pkg/kwmap/filter"
	"github.com/cognicore/kwmap/pkg/kwmap/ingest"
	"github.com/cognicore/kwmap/pkg/kwmap/internalerr"
	"github.com/cognicore/kwmap/pkg/kwmap/rangefilter"
	"github.com/cognicore/kwmap/pkg/kwmap/sample"
	"github.com/cognicore/kwmap/pkg/kwmap/search"
	"github.com/cognicore/kwmap/pkg/kwmap/sorter"
	"github.com/cognicore/kwmap/pkg/kwmap/store/memstore"
	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

func names(list []taxonomy.FlatRecord) string {
	var parts []string
	for _, r := range list {
		parts = append(parts, r.Name)
	}
	return strings.Join(parts, "|")
}

func TestIngestParseError(t *testing.T) {
	e := New(Options{})
	ds, err := e.Ingest([]byte(`{"data": [`))
	if err == nil {
		t.Fatal("Expected parse error")
	}
	if ds != nil {
		t.Error("Failed ingest must not return a dataset")
	}
	var perr *ingest.ParseError
	if !errors.As(err, &perr) || !errors.Is(err, internalerr.ErrParse) {
		t.Errorf("Expected *ingest.ParseError wrapping ErrParse, got %T %v", err, err)
	}
}

func TestIngestSampleDocument(t *testing.T) {
	e := New(Options{})
	ds, err := e.Ingest(sample.Raw())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if got := strings.Join(ds.Pillars(), "|"); got != "Dental Care|Orthodontics" {
		t.Errorf("Unexpected pillars %s", got)
	}
}

func TestFilteredTreeScopesPillar(t *testing.T) {
	e := New(Options{})
	ds := e.IngestPreloaded(sample.Nodes())

	cfg := filter.DefaultConfig()
	cfg.PillarTopic = "Orthodontics"
	tree := e.FilteredTree(ds, cfg, nil, nil)
	if len(tree) != 1 || tree[0].Name != "Orthodontics" {
		t.Fatalf("Unexpected tree %+v", tree)
	}
}

func TestFilteredTreeSearchKeepsAncestors(t *testing.T) {
	e := New(Options{})
	ds := e.IngestPreloaded(sample.Nodes())

	cfg := filter.DefaultConfig()
	cfg.NodeTypes = taxonomy.SelectOnly(taxonomy.Keywords)
	tree := e.FilteredTree(ds, cfg, search.ParseTerms("braces"), nil)

	if len(tree) != 1 || tree[0].Name != "Orthodontics" {
		t.Fatalf("Expected only Orthodontics to survive, got %d nodes", len(tree))
	}
	m := e.Metrics(tree[0])
	if m.TotalKeywords != 3 || m.TotalClusters != 2 || m.TotalSearchVolume != 44700 {
		t.Errorf("Unexpected metrics of filtered subtree %+v", m)
	}

	// The canonical tree is untouched.
	if full := e.Metrics(ds.Tree[1]); full.TotalKeywords != 5 {
		t.Errorf("Canonical subtree should still hold 5 keywords, got %d", full.TotalKeywords)
	}
}

func TestFilteredFlatAndSort(t *testing.T) {
	e := New(Options{})
	ds := e.IngestPreloaded(sample.Nodes())

	cfg := filter.DefaultConfig()
	cfg.SearchVolume = rangefilter.Named("10001-100000")
	list := e.FilteredFlat(ds, cfg, filter.AllPillars, search.ParseTerms("dental"), taxonomy.Cluster, nil)
	sorted := e.SortFlat(list, sorter.ParseSpec("searchVolume:desc"))

	if got := names(sorted); got != "Dental Implants|Dental Crowns" {
		t.Errorf("Unexpected clusters %s", got)
	}
}

func TestFilteredFlatKeywordsInPillar(t *testing.T) {
	e := New(Options{})
	ds := e.IngestPreloaded(sample.Nodes())

	list := e.FilteredFlat(ds, filter.DefaultConfig(), "Orthodontics", nil, taxonomy.Keywords, search.NewExclusions("invisalign"))
	if got := names(e.SortFlat(list, nil)); got != "braces colors|how much are braces" {
		t.Errorf("Unexpected keywords %s", got)
	}
}

func TestNilDataset(t *testing.T) {
	e := New(Options{})
	if e.FilteredTree(nil, filter.DefaultConfig(), nil, nil) != nil {
		t.Error("Nil dataset should give a nil tree")
	}
	if e.FilteredFlat(nil, filter.DefaultConfig(), filter.AllPillars, nil, taxonomy.Cluster, nil) != nil {
		t.Error("Nil dataset should give a nil list")
	}
}

func TestPillarRenamesOnIngest(t *testing.T) {
	e := New(Options{PillarNames: map[string]string{"Orthodontics": "Ortho"}})
	ds := e.IngestPreloaded(sample.Nodes())

	if got := strings.Join(ds.Pillars(), "|"); got != "Dental Care|Ortho" {
		t.Errorf("Unexpected pillars %s", got)
	}
	for _, rec := range e.FilteredFlat(ds, filter.DefaultConfig(), "Ortho", nil, taxonomy.Keywords, nil) {
		if !strings.HasPrefix(rec.FullHierarchyPath, "Ortho > ") {
			t.Errorf("Path not renamed: %s", rec.FullHierarchyPath)
		}
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	e := New(Options{Store: st})
	defer e.Close()

	ds := e.IngestPreloaded(sample.Nodes())
	if err := e.Export(ctx, ds); err != nil {
		t.Fatalf("Export: %v", err)
	}
	counts, _ := st.Count(ctx)
	if counts[taxonomy.Pillar] != 2 || counts[taxonomy.Cluster] != 7 || counts[taxonomy.Keywords] != 18 {
		t.Errorf("Unexpected counts %v", counts)
	}

	if err := New(Options{}).Export(ctx, ds); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Export without store should fail with ErrInvalidInput, got %v", err)
	}
}
