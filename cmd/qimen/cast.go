package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/qimen/calendar"
	"github.com/spektr-org/qimen/engine"
)

var castCmd = &cobra.Command{
	Use:   "cast [timestamp]",
	Short: "Cast one chart (defaults to now)",
	Example: `  qimen cast 20250901153000
  qimen cast 20220101060000 --format grid`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCast,
}

func runCast(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}

	ts := ""
	if len(args) == 1 {
		ts = args[0]
	} else {
		loc, _ := cfg.GetLocation()
		ts = calendar.FormatTimestamp(time.Now().In(loc))
	}

	res, err := e.Cast(ts)
	if err != nil {
		return fmt.Errorf("cast %s: %w", ts, err)
	}
	logger.Info("cast complete",
		zap.String("timestamp", res.Timestamp),
		zap.String("chief_star", res.ChiefStar),
	)

	w, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	if err := render(w, cfg.Output.Format, []*engine.ChartResult{res}); err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}
