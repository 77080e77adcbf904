package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/kwmap/pkg/kwmap/ingest"
)

var (
	buildOutput  string
	buildWorkers int
)

var buildCmd = &cobra.Command{
	Use:   "build <clusters-dir>",
	Short: "Build a taxonomy document from a directory of cluster CSV files",
	Long: "Walks <pillar>/<parent>[/<subtopic>]/<cluster>.csv, parses every cluster file " +
		"and writes a taxonomy document with aggregated metrics and build statistics.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workers := buildWorkers
		if !cmd.Flags().Changed("workers") {
			workers = env.Workers
		}

		doc, err := ingest.BuildFromDirectory(cmd.Context(), args[0], ingest.BuildOptions{
			Workers: workers,
			Logger:  log,
		})
		if err != nil {
			return err
		}

		if len(comp.PillarNames) > 0 {
			var renamed int
			doc.Data, renamed = ingest.RenamePillars(doc.Data, comp.PillarNames)
			log.Info("renamed pillars", zap.Int("count", renamed))
		}
		return writeDocument(buildOutput, doc)
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output file (default stdout)")
	buildCmd.Flags().IntVar(&buildWorkers, "workers", 4, "Concurrent CSV parsers (env KWMAP_WORKERS)")
	rootCmd.AddCommand(buildCmd)
}

func writeDocument(path string, doc ingest.Document) error {
	if doc.Data == nil {
		doc.Data = []ingest.RawNode{}
	}
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
