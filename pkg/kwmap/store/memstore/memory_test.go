package memstore

import (
	"context"
	"testing"

	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	index := taxonomy.FlatIndex{
		taxonomy.Pillar:  {{ID: "p1", Name: "Dental", Type: taxonomy.Pillar}},
		taxonomy.Cluster: {{ID: "c1", Name: "Crowns", Type: taxonomy.Cluster, Keywords: []string{"crown cost"}}},
	}
	if err := s.WriteSnapshot(ctx, index); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	// Mutating the caller's slices must not leak into the store.
	index[taxonomy.Cluster][0].Keywords[0] = "mutated"

	got, err := s.Records(ctx, taxonomy.Cluster)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(got) != 1 || got[0].Keywords[0] != "crown cost" {
		t.Fatalf("Unexpected clusters %+v", got)
	}

	counts, _ := s.Count(ctx)
	if counts[taxonomy.Pillar] != 1 || counts[taxonomy.Cluster] != 1 || len(counts) != 2 {
		t.Errorf("Unexpected counts %v", counts)
	}
}

func TestSnapshotReplaces(t *testing.T) {
	ctx := context.Background()
	s := New()

	_ = s.WriteSnapshot(ctx, taxonomy.FlatIndex{taxonomy.Pillar: {{ID: "a"}, {ID: "b"}}})
	_ = s.WriteSnapshot(ctx, taxonomy.FlatIndex{taxonomy.Parent: {{ID: "c"}}})

	pillars, _ := s.Records(ctx, taxonomy.Pillar)
	if len(pillars) != 0 {
		t.Errorf("Old snapshot survived: %+v", pillars)
	}
}

func TestWriteSnapshotHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New().WriteSnapshot(ctx, taxonomy.FlatIndex{}); err == nil {
		t.Error("Expected cancelled context error")
	}
}
