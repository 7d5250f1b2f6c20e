package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/qimen/calendar"
	"github.com/spektr-org/qimen/engine"
	"github.com/spektr-org/qimen/helpers"
)

var (
	batchFrom    string
	batchTo      string
	batchStep    time.Duration
	batchFile    string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Cast many charts from a range or a CSV of timestamps",
	Example: `  qimen batch --from 20250901000000 --to 20250902000000 --step 2h --format csv
  qimen batch --file stamps.csv --workers 4 --format json`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&batchFrom, "from", "", "first timestamp of the range")
	f.StringVar(&batchTo, "to", "", "last timestamp of the range (inclusive)")
	f.DurationVar(&batchStep, "step", 0, "range step (default from config)")
	f.StringVar(&batchFile, "file", "", "CSV file with a timestamp column")
	f.IntVar(&batchWorkers, "workers", -1, "parallel casts (default from config)")
	batchCmd.MarkFlagsMutuallyExclusive("file", "from")
	batchCmd.MarkFlagsRequiredTogether("from", "to")
	batchCmd.MarkFlagsOneRequired("file", "from")
}

func runBatch(cmd *cobra.Command, args []string) error {
	stamps, err := batchStamps()
	if err != nil {
		return err
	}

	e, err := newEngine()
	if err != nil {
		return err
	}

	workers := cfg.Batch.Workers
	if batchWorkers >= 0 {
		workers = batchWorkers
	}

	started := time.Now()
	results, err := engine.CastBatch(cmd.Context(), e, stamps, workers)
	if err != nil {
		return err
	}
	logger.Info("batch complete",
		zap.Int("charts", len(results)),
		zap.Int("workers", workers),
		zap.Duration("elapsed", time.Since(started)),
	)

	w, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	if err := render(w, cfg.Output.Format, results); err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}

func batchStamps() ([]string, error) {
	if batchFile != "" {
		f, err := os.Open(batchFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", batchFile, err)
		}
		defer f.Close()
		return helpers.ParseStamps(f)
	}

	loc, err := cfg.GetLocation()
	if err != nil {
		return nil, err
	}
	from, err := calendar.ParseTimestamp(batchFrom, loc)
	if err != nil {
		return nil, err
	}
	to, err := calendar.ParseTimestamp(batchTo, loc)
	if err != nil {
		return nil, err
	}
	step := batchStep
	if step == 0 {
		if step, err = cfg.GetStep(); err != nil {
			return nil, err
		}
	}
	return calendar.Range(from, to, step)
}
