package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

func sampleIndex() taxonomy.FlatIndex {
	return taxonomy.FlatIndex{
		taxonomy.Pillar: {
			{ID: "pillar-0-a", Name: "Dental", Type: taxonomy.Pillar, SearchVolume: 300, TotalKeywords: 2, TotalClusters: 1, FullHierarchyPath: "Dental"},
		},
		taxonomy.Cluster: {
			{
				ID:                "cluster-1-b",
				Name:              "Crowns",
				Type:              taxonomy.Cluster,
				SearchVolume:      300,
				KeywordDifficulty: 41.5,
				CPC:               2.25,
				TotalKeywords:     2,
				TotalClusters:     1,
				FullHierarchyPath: "Dental > Crowns",
				Metadata:          &taxonomy.Metadata{CentroidKeywords: "crown, cap", ClusterSize: 2},
				Keywords:          []string{"crown cost", "crown, porcelain"},
			},
			{ID: "cluster-1-c", Name: "Bridges", Type: taxonomy.Cluster, FullHierarchyPath: "Dental > Bridges"},
		},
		taxonomy.Keywords: {
			{ID: "keywords-2-d", Name: "crown cost", Type: taxonomy.Keywords, SearchVolume: 200, FullHierarchyPath: "Dental > Crowns > crown cost"},
		},
	}
}

func TestSQLiteSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "snapshot.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	if err := st.WriteSnapshot(ctx, sampleIndex()); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	clusters, err := st.Records(ctx, taxonomy.Cluster)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("Expected 2 clusters, got %d", len(clusters))
	}
	c := clusters[0]
	if c.Name != "Crowns" || c.KeywordDifficulty != 41.5 || c.CPC != 2.25 || c.FullHierarchyPath != "Dental > Crowns" {
		t.Errorf("Unexpected cluster %+v", c)
	}
	if c.Metadata == nil || c.Metadata.CentroidKeywords != "crown, cap" || c.Metadata.ClusterSize != 2 {
		t.Errorf("Metadata not restored: %+v", c.Metadata)
	}
	if len(c.Keywords) != 2 || c.Keywords[1] != "crown, porcelain" {
		t.Errorf("Keywords not restored in order: %v", c.Keywords)
	}
	if clusters[1].Name != "Bridges" || clusters[1].Metadata != nil || len(clusters[1].Keywords) != 0 {
		t.Errorf("Unexpected second cluster %+v", clusters[1])
	}

	counts, err := st.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if counts[taxonomy.Pillar] != 1 || counts[taxonomy.Cluster] != 2 || counts[taxonomy.Keywords] != 1 {
		t.Errorf("Unexpected counts %v", counts)
	}
}

func TestSQLiteSnapshotReplacesAndPersists(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "snapshot.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := st.WriteSnapshot(ctx, sampleIndex()); err != nil {
		t.Fatalf("first WriteSnapshot: %v", err)
	}
	next := taxonomy.FlatIndex{
		taxonomy.Parent: {{ID: "parent-1-z", Name: "Implants", Type: taxonomy.Parent, FullHierarchyPath: "Dental > Implants"}},
	}
	if err := st.WriteSnapshot(ctx, next); err != nil {
		t.Fatalf("second WriteSnapshot: %v", err)
	}
	st.Close()

	reopened, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	clusters, _ := reopened.Records(ctx, taxonomy.Cluster)
	if len(clusters) != 0 {
		t.Errorf("Second snapshot should replace the first, found %d clusters", len(clusters))
	}
	parents, _ := reopened.Records(ctx, taxonomy.Parent)
	if len(parents) != 1 || parents[0].Name != "Implants" {
		t.Errorf("Unexpected parents %+v", parents)
	}
}

func TestSQLiteDuplicateIDRollsBack(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "dup.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	if err := st.WriteSnapshot(ctx, sampleIndex()); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	dup := taxonomy.FlatIndex{
		taxonomy.Pillar: {{ID: "same", Type: taxonomy.Pillar}, {ID: "same", Type: taxonomy.Pillar}},
	}
	if err := st.WriteSnapshot(ctx, dup); err == nil {
		t.Fatal("Expected duplicate id error")
	}

	clusters, _ := st.Records(ctx, taxonomy.Cluster)
	if len(clusters) != 2 {
		t.Errorf("Failed write should leave the previous snapshot, got %d clusters", len(clusters))
	}
}
