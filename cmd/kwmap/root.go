package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/kwmap/internal/logger"
	"github.com/cognicore/kwmap/pkg/kwmap"
	"github.com/cognicore/kwmap/pkg/kwmap/config"
	"github.com/cognicore/kwmap/pkg/kwmap/ingest"
	"github.com/cognicore/kwmap/pkg/kwmap/sample"
)

var (
	configPath string
	logMode    string
	logLevel   string

	env  *config.Env
	comp *config.Components
	log  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "kwmap",
	Short:         "Explore keyword taxonomies: build, filter, sort and export",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		env, err = config.LoadEnv()
		if err != nil {
			return fmt.Errorf("environment: %w", err)
		}
		if !cmd.Flags().Changed("config") {
			configPath = env.ConfigPath
		}
		if !cmd.Flags().Changed("log-mode") {
			logMode = env.LogMode
		}
		if !cmd.Flags().Changed("log-level") {
			logLevel = env.LogLevel
		}

		log, err = logger.New(logMode, logLevel)
		if err != nil {
			return err
		}

		loader := config.Loader{Path: configPath}
		comp, err = loader.Load()
		if err != nil {
			return err
		}
		log.Debug("configuration loaded", zap.String("path", configPath), zap.Int("page_size", comp.PageSize))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// Execute runs the root command and exits non-zero on failure. Interrupts
// cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML or TOML config file (env KWMAP_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", "development", "Log encoder: development or production (env KWMAP_LOG_MODE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (env KWMAP_LOG_LEVEL)")
}

func newExplorer() *kwmap.Explorer {
	return kwmap.New(kwmap.Options{
		Logger:      log,
		PillarNames: comp.PillarNames,
	})
}

// loadDataset reads a taxonomy document from path, or the built-in sample
// when path is empty.
func loadDataset(e *kwmap.Explorer, path string) (*ingest.Dataset, error) {
	if path == "" {
		log.Info("no input given, using built-in sample")
		return e.IngestPreloaded(sample.Nodes()), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ds, err := e.Ingest(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
