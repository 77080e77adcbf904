package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cognicore/kwmap/pkg/kwmap"
	"github.com/cognicore/kwmap/pkg/kwmap/export"
	"github.com/cognicore/kwmap/pkg/kwmap/ingest"
	"github.com/cognicore/kwmap/pkg/kwmap/sorter"
	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

var (
	flatFilters  filterFlags
	flatType     string
	flatSort     string
	flatPage     int
	flatPageSize int
	flatCSV      bool
)

var flatCmd = &cobra.Command{
	Use:   "flat [document.json]",
	Short: "List one node type as a filtered, sorted table",
	Long:  "Without a document the built-in sample is used. --csv writes every matching row instead of one page.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := taxonomy.ParseType(flatType)
		if err != nil {
			return fmt.Errorf("--type: %w", err)
		}

		e := newExplorer()
		var session kwmap.Session
		ds, err := loadDataset(e, inputArg(args))
		if err != nil {
			session.Fail(err)
			return err
		}
		session.Load(ds)

		list, err := flatList(e, ds, typ, &flatFilters, flatSort)
		if err != nil {
			return err
		}

		if flatCSV {
			return export.WriteCSV(os.Stdout, list)
		}
		if session.Status(len(list)) == kwmap.StatusNoResults {
			fmt.Fprintln(os.Stderr, "no results")
			return nil
		}

		size := comp.PageSize
		if cmd.Flags().Changed("page-size") {
			size = flatPageSize
		}
		page, pages := sorter.Paginate(list, flatPage, size)
		if err := writeTable(os.Stdout, page); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "page %d of %d (%d results)\n", clampPage(flatPage, pages), pages, len(list))
		return nil
	},
}

func init() {
	flatFilters.register(flatCmd)
	flatCmd.Flags().StringVarP(&flatType, "type", "t", "cluster", "Node type to list")
	flatCmd.Flags().StringVar(&flatSort, "sort", "", `Sort column and direction, e.g. "cpc:desc" (default from config)`)
	flatCmd.Flags().IntVar(&flatPage, "page", 1, "Page number, starting at 1")
	flatCmd.Flags().IntVar(&flatPageSize, "page-size", 50, "Rows per page, 0 for all (default from config)")
	flatCmd.Flags().BoolVar(&flatCSV, "csv", false, "Write CSV to stdout")
	rootCmd.AddCommand(flatCmd)
}

// flatList filters and sorts the list of typ. The pillar scope follows the
// pillar flag, falling back to the configured pillar.
func flatList(e *kwmap.Explorer, ds *ingest.Dataset, typ taxonomy.Type, flags *filterFlags, sortFlag string) ([]taxonomy.FlatRecord, error) {
	cfg, terms, excl, err := flags.resolve(comp.Filter, comp.Exclusions)
	if err != nil {
		return nil, err
	}
	spec := comp.Sort
	if sortFlag != "" {
		spec = sorter.ParseSpec(sortFlag)
	}
	list := e.FilteredFlat(ds, cfg, cfg.PillarTopic, terms, typ, excl)
	return e.SortFlat(list, spec), nil
}

func clampPage(page, pages int) int {
	if page < 1 {
		return 1
	}
	if page > pages {
		return pages
	}
	return page
}

func writeTable(w io.Writer, list []taxonomy.FlatRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tVOLUME\tKD\tCPC\tKEYWORDS\tCLUSTERS\tPATH")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t$%.2f\t%d\t%d\t%s\n",
			r.Name, r.Type, humanize.Comma(int64(r.SearchVolume)),
			r.KeywordDifficulty, r.CPC, r.TotalKeywords, r.TotalClusters, r.FullHierarchyPath)
	}
	return tw.Flush()
}
