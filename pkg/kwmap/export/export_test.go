package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

func TestHeaderColumns(t *testing.T) {
	plain := []taxonomy.FlatRecord{{Name: "a", Type: taxonomy.Keywords}}
	if got := strings.Join(Header(plain), ","); got != "Keyword/Name,Search Volume,Keyword Difficulty,CPC (USD)" {
		t.Errorf("Unexpected header %q", got)
	}

	withCluster := append(plain, taxonomy.FlatRecord{Name: "c", Type: taxonomy.Cluster})
	h := Header(withCluster)
	if len(h) != 6 || h[4] != ColumnKeywordCount || h[5] != ColumnKeywords {
		t.Errorf("Unexpected cluster header %v", h)
	}
}

func TestRowsFormatting(t *testing.T) {
	rows := Rows([]taxonomy.FlatRecord{
		{Name: "crowns", Type: taxonomy.Cluster, SearchVolume: 1200, KeywordDifficulty: 41.5, CPC: 2.25, Keywords: []string{"a", "b"}},
		{Name: "dental", Type: taxonomy.Pillar, SearchVolume: 1200},
	})
	want := [][]string{
		{"crowns", "1200", "41.5", "2.25", "2", "a; b"},
		{"dental", "1200", "0", "0", "", ""},
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	items := []taxonomy.FlatRecord{
		{Name: "Crowns", Type: taxonomy.Cluster, SearchVolume: 300, Keywords: []string{"crown cost", "crown, porcelain"}},
		{Name: `Say "ahh"`, Type: taxonomy.Cluster, SearchVolume: 10, Keywords: []string{"open wide"}},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, items); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"crown cost; crown, porcelain"`) {
		t.Errorf("Field with comma should be quoted:\n%s", out)
	}
	if !strings.Contains(out, `"Say ""ahh"""`) {
		t.Errorf("Quotes should be doubled:\n%s", out)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(records))
	}
	if records[1][5] != "crown cost; crown, porcelain" {
		t.Errorf("Keywords not recovered: %q", records[1][5])
	}
	if records[2][0] != `Say "ahh"` {
		t.Errorf("Name not recovered: %q", records[2][0])
	}
}
