package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/kwmap/pkg/kwmap/ingest"
)

var (
	renameOutput string
	renameMap    []string
)

var renameCmd = &cobra.Command{
	Use:   "rename-pillars <document.json>",
	Short: "Rename pillars in a taxonomy document",
	Long:  "Applies pillar_names from the config file plus any --map old=new pairs, and writes the rewritten document.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mapping, err := pillarMapping(comp.PillarNames, renameMap)
		if err != nil {
			return err
		}
		if len(mapping) == 0 {
			return fmt.Errorf("no pillar mapping: set pillar_names in the config or pass --map")
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		doc, err := ingest.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		var renamed int
		doc.Data, renamed = ingest.RenamePillars(doc.Data, mapping)
		log.Info("renamed pillars", zap.Int("count", renamed), zap.Int("mappings", len(mapping)))
		return writeDocument(renameOutput, doc)
	},
}

func init() {
	renameCmd.Flags().StringVarP(&renameOutput, "output", "o", "", "Output file (default stdout)")
	renameCmd.Flags().StringArrayVar(&renameMap, "map", nil, "Rename pair old=new (repeatable)")
	rootCmd.AddCommand(renameCmd)
}

// pillarMapping merges base with old=new pairs; pairs win.
func pillarMapping(base map[string]string, pairs []string) (map[string]string, error) {
	mapping := make(map[string]string, len(base)+len(pairs))
	for k, v := range base {
		mapping[k] = v
	}
	for _, pair := range pairs {
		from, to, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(from) == "" {
			return nil, fmt.Errorf("--map %q: expected old=new", pair)
		}
		mapping[strings.TrimSpace(from)] = strings.TrimSpace(to)
	}
	return mapping, nil
}
