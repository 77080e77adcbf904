package sorter

import (
	"sort"
	"strings"
	"testing"

	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

func recs(names ...string) []taxonomy.FlatRecord {
	out := make([]taxonomy.FlatRecord, len(names))
	for i, n := range names {
		out[i] = taxonomy.FlatRecord{ID: n, Name: n, Type: taxonomy.Keywords}
	}
	return out
}

func joined(list []taxonomy.FlatRecord) string {
	var parts []string
	for _, r := range list {
		parts = append(parts, r.Name)
	}
	return strings.Join(parts, "|")
}

func TestKeywordComparatorCategories(t *testing.T) {
	words := []string{"2 units", "apple", "!bang"}
	cmp := KeywordComparator()
	sort.SliceStable(words, func(i, j int) bool { return cmp(words[i], words[j]) < 0 })

	if got := strings.Join(words, "|"); got != "apple|2 units|!bang" {
		t.Errorf("Unexpected order %s", got)
	}
}

func TestKeywordComparatorCaseInsensitive(t *testing.T) {
	cmp := KeywordComparator()
	if cmp("Banana", "apple") <= 0 {
		t.Error("apple should sort before Banana regardless of case")
	}
	if cmp("", "a") <= 0 {
		t.Error("Empty strings belong with symbols, after letters")
	}
}

func TestSortDefaultsToNameAscending(t *testing.T) {
	in := recs("zeta", "10 tips", "Alpha", "#tag", "beta")
	out := Sort(in, nil, nil)
	if got := joined(out); got != "Alpha|beta|zeta|10 tips|#tag" {
		t.Errorf("Unexpected order %s", got)
	}
	if joined(in) != "zeta|10 tips|Alpha|#tag|beta" {
		t.Error("Sort must not reorder its input")
	}
}

func TestSortDescending(t *testing.T) {
	out := Sort(recs("a", "c", "b"), &Spec{Key: KeyName, Direction: Desc}, nil)
	if got := joined(out); got != "c|b|a" {
		t.Errorf("Unexpected order %s", got)
	}
}

func TestSortNumeric(t *testing.T) {
	in := []taxonomy.FlatRecord{
		{Name: "a", CPC: 2.5},
		{Name: "b", CPC: 0.5},
		{Name: "c", CPC: 10},
		{Name: "d", CPC: 0.5},
	}
	out := Sort(in, ParseSpec("cpc:desc"), nil)
	if got := joined(out); got != "c|a|b|d" {
		t.Errorf("Unexpected order %s (ties should stay stable)", got)
	}

	out = Sort(in, ParseSpec("cpc"), nil)
	if got := joined(out); got != "b|d|a|c" {
		t.Errorf("Unexpected ascending order %s", got)
	}
}

func TestSortByPathAndType(t *testing.T) {
	in := []taxonomy.FlatRecord{
		{Name: "x", Type: taxonomy.Pillar, FullHierarchyPath: "b > x"},
		{Name: "y", Type: taxonomy.Cluster, FullHierarchyPath: "a > y"},
	}
	if got := joined(Sort(in, &Spec{Key: KeyPath}, nil)); got != "y|x" {
		t.Errorf("Unexpected path order %s", got)
	}
	if got := joined(Sort(in, &Spec{Key: KeyType, Direction: Asc}, nil)); got != "y|x" {
		t.Errorf("cluster should sort before pillar, got %s", got)
	}
}

func TestSortUnknownKeyKeepsInputOrder(t *testing.T) {
	in := []taxonomy.FlatRecord{
		{ID: "cluster-3-01J", Name: "1"},
		{ID: "cluster-2-01K", Name: "2"},
		{ID: "cluster-3-01A", Name: "3"},
	}
	for _, dir := range []string{Asc, Desc} {
		if got := joined(Sort(in, &Spec{Key: "bogus", Direction: dir}, nil)); got != "1|2|3" {
			t.Errorf("Unknown key %s reordered records: %s", dir, got)
		}
	}
}

func TestSortByID(t *testing.T) {
	in := []taxonomy.FlatRecord{{ID: "B", Name: "1"}, {ID: "a", Name: "2"}}
	if got := joined(Sort(in, &Spec{Key: KeyID}, nil)); got != "2|1" {
		t.Errorf("Unexpected order %s", got)
	}
}

func TestParseSpec(t *testing.T) {
	if ParseSpec("  ") != nil {
		t.Error("Empty spec should be nil")
	}
	s := ParseSpec("searchVolume:DESC")
	if s.Key != KeySearchVolume || s.Direction != Desc {
		t.Errorf("Unexpected spec %+v", s)
	}
}

func TestPaginate(t *testing.T) {
	list := recs("a", "b", "c", "d", "e")

	page, pages := Paginate(list, 2, 2)
	if pages != 3 || joined(page) != "c|d" {
		t.Errorf("Page 2 = %s of %d", joined(page), pages)
	}
	page, _ = Paginate(list, 99, 2)
	if joined(page) != "e" {
		t.Errorf("Out-of-range page should clamp to last, got %s", joined(page))
	}
	page, _ = Paginate(list, 0, 2)
	if joined(page) != "a|b" {
		t.Errorf("Page 0 should clamp to first, got %s", joined(page))
	}
	page, pages = Paginate(list, 1, 0)
	if pages != 1 || len(page) != 5 {
		t.Error("Size 0 should return everything")
	}
}
