package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var refdataCmd = &cobra.Command{
	Use:   "refdata",
	Short: "Inspect the reference tables",
}

var refdataCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configured reference tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := cfg.LoadTables()
		if err != nil {
			return err
		}
		source := cfg.ReferenceData
		if source == "" {
			source = "embedded"
		}
		logger.Debug("reference tables valid", zap.String("source", source), zap.String("version", tables.Version))
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (version %s, %d sexagenary entries, %d solar terms)\n",
			source, tables.Version, len(tables.Sexagenary), len(tables.SolarTerms))
		return nil
	},
}

var refdataDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the parsed reference tables as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := cfg.LoadTables()
		if err != nil {
			return err
		}
		w, closeOut, err := openOutput(cmd)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tables); err != nil {
			_ = closeOut()
			return fmt.Errorf("failed to encode tables: %w", err)
		}
		if err := enc.Close(); err != nil {
			_ = closeOut()
			return err
		}
		return closeOut()
	},
}

func init() {
	refdataCmd.AddCommand(refdataCheckCmd, refdataDumpCmd)
}
