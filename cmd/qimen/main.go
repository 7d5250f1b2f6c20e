package main

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/qimen/config"
	"github.com/spektr-org/qimen/engine"
)

// ============================================================================
// QIMEN CLI: cast Qi Men Dun Jia charts from the terminal
// ============================================================================

const version = "0.3.0"

var (
	// Global flags
	configPath  string
	refdataPath string
	format      string
	outFile     string
	verbose     bool

	// Set up in PersistentPreRunE
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
)

var rootCmd = &cobra.Command{
	Use:     "qimen",
	Short:   "Qi Men Dun Jia chart caster",
	Version: version,
	Long: `qimen casts nine-palace Qi Men Dun Jia charts for a moment in time.

Timestamps are 14 digits: YYYYMMDDHHMMSS, read in the configured time zone.

Formats:
  json      Full chart as JSON
  pretty    Indented JSON
  text      Human-readable summary (default)
  csv       Palace table as CSV
  grid      Luo Shu square drawn in the terminal`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if refdataPath != "" {
			cfg.ReferenceData = refdataPath
		}
		if format != "" {
			cfg.Output.Format = format
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config %s: %w", configPath, err)
		}

		logger, err = cfg.NewLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if cfg.Metrics.Enabled {
			registry = prometheus.NewRegistry()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if registry != nil {
			if err := dumpMetrics(cmd.ErrOrStderr(), registry); err != nil {
				logger.Warn("metrics dump failed", zap.Error(err))
			}
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", config.DefaultPath, "path to qimen.yaml")
	pf.StringVar(&refdataPath, "refdata", "", "reference tables JSON (overrides config)")
	pf.StringVarP(&format, "format", "f", "", "output format: json, pretty, text, csv, grid")
	pf.StringVarP(&outFile, "out", "o", "", "write output to file instead of stdout")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(castCmd, batchCmd, refdataCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newEngine builds an engine from the loaded configuration.
func newEngine() (*engine.Engine, error) {
	tables, err := cfg.LoadTables()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.GetLocation()
	if err != nil {
		return nil, err
	}
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithLocation(loc),
	}
	if registry != nil {
		opts = append(opts, engine.WithMetrics(registry))
	}
	return engine.New(tables, opts...)
}

// openOutput returns stdout or the --out file, with a closer.
func openOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	if outFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
