// Package export flattens table rows for CSV download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

// Column names in output order.
const (
	ColumnName         = "Keyword/Name"
	ColumnVolume       = "Search Volume"
	ColumnDifficulty   = "Keyword Difficulty"
	ColumnCPC          = "CPC (USD)"
	ColumnKeywordCount = "Keyword Count"
	ColumnKeywords     = "Keywords"
)

// KeywordSeparator joins a cluster's keywords into one field.
const KeywordSeparator = "; "

// Header returns the column names for items. The cluster columns appear only
// when at least one item is a cluster.
func Header(items []taxonomy.FlatRecord) []string {
	cols := []string{ColumnName, ColumnVolume, ColumnDifficulty, ColumnCPC}
	if hasClusters(items) {
		cols = append(cols, ColumnKeywordCount, ColumnKeywords)
	}
	return cols
}

// Rows returns one row per item aligned with Header(items). Non-cluster rows
// leave the cluster columns empty.
func Rows(items []taxonomy.FlatRecord) [][]string {
	wide := hasClusters(items)
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		row := []string{
			it.Name,
			formatFloat(it.SearchVolume),
			formatFloat(it.KeywordDifficulty),
			formatFloat(it.CPC),
		}
		if wide {
			if it.Type == taxonomy.Cluster {
				row = append(row, strconv.Itoa(len(it.Keywords)), strings.Join(it.Keywords, KeywordSeparator))
			} else {
				row = append(row, "", "")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes the header and rows for items to w.
func WriteCSV(w io.Writer, items []taxonomy.FlatRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(items)); err != nil {
		return err
	}
	if err := cw.WriteAll(Rows(items)); err != nil {
		return err
	}
	return cw.Error()
}

func hasClusters(items []taxonomy.FlatRecord) bool {
	for _, it := range items {
		if it.Type == taxonomy.Cluster {
			return true
		}
	}
	return false
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
