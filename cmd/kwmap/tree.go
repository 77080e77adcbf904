package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cognicore/kwmap/pkg/kwmap"
	"github.com/cognicore/kwmap/pkg/kwmap/metrics"
	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

var (
	treeFilters  filterFlags
	treeKeywords bool
	treeJSON     bool
)

var treeCmd = &cobra.Command{
	Use:   "tree [document.json]",
	Short: "Print the filtered hierarchy with aggregated metrics",
	Long:  "Without a document the built-in sample is used.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := newExplorer()
		var session kwmap.Session
		ds, err := loadDataset(e, inputArg(args))
		if err != nil {
			session.Fail(err)
			return err
		}
		session.Load(ds)

		cfg, terms, excl, err := treeFilters.resolve(comp.Filter, comp.Exclusions)
		if err != nil {
			return err
		}
		tree := e.FilteredTree(ds, cfg, terms, excl)

		if treeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"data": metrics.Refresh(tree)})
		}
		if session.Status(len(tree)) == kwmap.StatusNoResults {
			fmt.Fprintln(os.Stderr, "no results")
			return nil
		}
		printTree(os.Stdout, tree, metrics.NewCache(), 0, treeKeywords)
		return nil
	},
}

func init() {
	treeFilters.register(treeCmd)
	treeCmd.Flags().BoolVarP(&treeKeywords, "keywords", "k", false, "List cluster keywords")
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "Write the filtered tree as a document with refreshed metrics")
	rootCmd.AddCommand(treeCmd)
}

// printTree writes one line per node. Metrics come from the filtered subtree,
// sharing cache across one rendering pass.
func printTree(w io.Writer, nodes []*taxonomy.Node, cache metrics.Cache, depth int, keywords bool) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		m := metrics.Aggregate(n, cache)
		fmt.Fprintf(w, "%s%s [%s] volume=%s keywords=%d clusters=%d kd=%.1f cpc=$%.2f\n",
			indent, n.Name, n.Type,
			humanize.Comma(int64(m.TotalSearchVolume)),
			m.TotalKeywords, m.TotalClusters, m.AverageKD, m.AverageCPC)
		if keywords {
			for _, kw := range n.Keywords {
				fmt.Fprintf(w, "%s  - %s (%s, kd %.0f, $%.2f)\n",
					indent, kw.Keyword, humanize.Comma(int64(kw.SearchVolume)), kw.KeywordDifficulty, kw.CPC)
			}
		}
		printTree(w, n.Children, cache, depth+1, keywords)
	}
}
