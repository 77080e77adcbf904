package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/kwmap/pkg/kwmap"
	"github.com/cognicore/kwmap/pkg/kwmap/export"
	"github.com/cognicore/kwmap/pkg/kwmap/store/sqlite"
	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

var (
	exportFilters filterFlags
	exportDB      string
	exportCSV     string
	exportType    string
	exportSort    string
)

var exportCmd = &cobra.Command{
	Use:   "export [document.json]",
	Short: "Export flat lists to a SQLite snapshot or a CSV file",
	Long: "--db writes every flat list, unfiltered, to a SQLite database. " +
		"--csv writes the filtered and sorted list of --type.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportDB == "" && exportCSV == "" {
			return fmt.Errorf("nothing to do: pass --db and/or --csv")
		}
		ctx := cmd.Context()

		opts := kwmap.Options{Logger: log, PillarNames: comp.PillarNames}
		if exportDB != "" {
			st, err := sqlite.OpenSQLite(ctx, exportDB)
			if err != nil {
				return fmt.Errorf("open %s: %w", exportDB, err)
			}
			opts.Store = st
		}
		e := kwmap.New(opts)
		defer e.Close()

		ds, err := loadDataset(e, inputArg(args))
		if err != nil {
			return err
		}

		if exportDB != "" {
			if err := e.Export(ctx, ds); err != nil {
				return err
			}
		}

		if exportCSV != "" {
			typ, err := taxonomy.ParseType(exportType)
			if err != nil {
				return fmt.Errorf("--type: %w", err)
			}
			list, err := flatList(e, ds, typ, &exportFilters, exportSort)
			if err != nil {
				return err
			}
			f, err := os.Create(exportCSV)
			if err != nil {
				return err
			}
			if err := export.WriteCSV(f, list); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			log.Info("csv written", zap.String("path", exportCSV), zap.Int("rows", len(list)))
		}
		return nil
	},
}

func init() {
	exportFilters.register(exportCmd)
	exportCmd.Flags().StringVar(&exportDB, "db", "", "SQLite database to write the snapshot to")
	exportCmd.Flags().StringVar(&exportCSV, "csv", "", "CSV file to write")
	exportCmd.Flags().StringVarP(&exportType, "type", "t", "cluster", "Node type for --csv")
	exportCmd.Flags().StringVar(&exportSort, "sort", "", "Sort for --csv (default from config)")
	rootCmd.AddCommand(exportCmd)
}
