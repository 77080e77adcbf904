package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/kwmap/pkg/kwmap/internalerr"
	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

func clusterCSV(rows ...string) string {
	header := `# centroid_keywords: crown, implant
# tfidf_keywords: dental crown
# cluster_size: 3
# keyword_diversity_samples_in_cluster: crown cost | crown types
keyword,Semrush_Search Volume,Semrush_Keyword Difficulty,Semrush_CPC (USD),Semrush_Search Intent
`
	return header + strings.Join(rows, "\n") + "\n"
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReadCluster(t *testing.T) {
	content := clusterCSV(
		`dental crown,"1,300",45,3.20,commercial`,
		`Crown cost,,abc,,informational`,
		`   ,10,10,1,x`,
		`abutment,50,30,2.5,x`,
	)
	node, err := ReadCluster(strings.NewReader(content), "crowns")
	if err != nil {
		t.Fatalf("ReadCluster failed: %v", err)
	}

	if node.Type != taxonomy.Cluster || node.Name != "crowns" {
		t.Errorf("Unexpected node %s/%v", node.Name, node.Type)
	}
	if node.Metadata.ClusterSize != 3 || node.Metadata.TfidfKeywords != "dental crown" {
		t.Errorf("Unexpected metadata %+v", node.Metadata)
	}
	if len(node.Keywords) != 3 {
		t.Fatalf("Expected 3 keywords (blank skipped), got %d", len(node.Keywords))
	}

	// Sorted case-insensitively.
	order := []string{"abutment", "Crown cost", "dental crown"}
	for i, want := range order {
		if node.Keywords[i].Keyword != want {
			t.Errorf("Keyword %d = %q, want %q", i, node.Keywords[i].Keyword, want)
		}
	}
	if node.Keywords[2].SearchVolume != 1300 || node.Keywords[2].CPC != 3.2 {
		t.Errorf("Unexpected dental crown metrics %+v", node.Keywords[2])
	}
	if node.Keywords[1].SearchVolume != 0 || node.Keywords[1].KeywordDifficulty != 0 {
		t.Errorf("Empty and garbage numbers should be 0, got %+v", node.Keywords[1])
	}
	if !node.Keywords[1].NoKD || !node.Keywords[1].NoCPC {
		t.Errorf("Empty and garbage cells should be marked absent, got %+v", node.Keywords[1])
	}
	if node.Keywords[2].NoKD || node.Keywords[2].NoCPC {
		t.Errorf("Supplied cells should be present, got %+v", node.Keywords[2])
	}
}

func TestReadClusterRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no metadata", "keyword,Semrush_Search Volume\nfoo,1\n"},
		{"bad cluster size", strings.Replace(clusterCSV("a,1,1,1,x"), "cluster_size: 3", "cluster_size: many", 1)},
		{"missing columns", strings.Replace(clusterCSV("a,1,1,1,x"), "Semrush_CPC (USD)", "CPC", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCluster(strings.NewReader(tt.content), "x")
			if err == nil {
				t.Fatal("Expected error")
			}
			if !errors.Is(err, internalerr.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestBuildFromDirectory(t *testing.T) {
	root := t.TempDir()

	// Parent without subtopics.
	writeFile(t, filepath.Join(root, "dental", "crowns", "crown cost.csv"),
		clusterCSV("crown cost,100,40,2", "crown price,50,10,1"))
	// Parent with subtopics; the loose CSV next to them is ignored.
	writeFile(t, filepath.Join(root, "dental", "implants", "single", "implant cost.csv"),
		clusterCSV("implant cost,300,60,5"))
	writeFile(t, filepath.Join(root, "dental", "implants", "loose.csv"),
		clusterCSV("loose keyword,1,1,1"))
	// Broken file is counted as an error and left out of the tree.
	writeFile(t, filepath.Join(root, "dental", "crowns", "broken.csv"), "not a cluster file\n")
	// Hidden directories are skipped.
	writeFile(t, filepath.Join(root, ".cache", "x", "y.csv"), clusterCSV("hidden,1,1,1"))
	// A pillar whose only cluster is empty disappears.
	writeFile(t, filepath.Join(root, "empty", "nothing", "none.csv"), clusterCSV())

	doc, err := BuildFromDirectory(context.Background(), root, BuildOptions{Workers: 2})
	if err != nil {
		t.Fatalf("BuildFromDirectory failed: %v", err)
	}

	if doc.Statistics.TotalFiles != 6 {
		t.Errorf("Expected 6 files, got %d", doc.Statistics.TotalFiles)
	}
	if doc.Statistics.ErrorFiles != 2 {
		t.Errorf("Expected 2 error files (broken + empty), got %d", doc.Statistics.ErrorFiles)
	}
	if len(doc.Data) != 1 || doc.Data[0].Name != "dental" {
		t.Fatalf("Expected only the dental pillar, got %+v", doc.Data)
	}

	pillar := doc.Data[0]
	if pillar.Type != taxonomy.Pillar || len(pillar.Children) != 2 {
		t.Fatalf("Unexpected pillar %+v", pillar)
	}
	crowns, implants := pillar.Children[0], pillar.Children[1]
	if crowns.Name != "crowns" || len(crowns.Children) != 1 || crowns.Children[0].Type != taxonomy.Cluster {
		t.Errorf("Unexpected crowns branch %+v", crowns)
	}
	if implants.Children[0].Type != taxonomy.Subtopic || implants.Children[0].Name != "single" {
		t.Errorf("Expected subtopic level under implants, got %+v", implants.Children[0])
	}
	if len(implants.Children) != 1 {
		t.Errorf("Loose CSV next to subtopics should be ignored, got %d children", len(implants.Children))
	}

	if pillar.TotalKeywords.Int() != 3 || pillar.TotalClusters.Int() != 2 || pillar.Size.Float() != 450 {
		t.Errorf("Unexpected pillar aggregates size=%v kw=%v clusters=%v", pillar.Size, pillar.TotalKeywords, pillar.TotalClusters)
	}

	want := []string{"dental -> crowns", "dental -> implants -> [Subtopics]", "empty -> nothing"}
	if strings.Join(doc.Statistics.StructureVariations, "|") != strings.Join(want, "|") {
		t.Errorf("Unexpected variations %v", doc.Statistics.StructureVariations)
	}

	ds := NewNormalizer(nil).NormalizeDocument(doc)
	if len(ds.List(taxonomy.Keywords)) != 3 {
		t.Errorf("Expected 3 keywords after normalization, got %d", len(ds.List(taxonomy.Keywords)))
	}
}

func TestBuildFromDirectoryWithoutFiles(t *testing.T) {
	_, err := BuildFromDirectory(context.Background(), t.TempDir(), BuildOptions{})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildFromDirectoryCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p", "q", "c.csv"), clusterCSV("a,1,1,1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := BuildFromDirectory(ctx, root, BuildOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
