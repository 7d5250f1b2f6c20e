package engine

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Caster is anything that can cast one timestamp. *Engine implements it.
type Caster interface {
	Cast(ts string) (*ChartResult, error)
}

// CastBatch casts every timestamp with up to workers goroutines
// (GOMAXPROCS when workers <= 0). Results keep input order. The first
// failure cancels the remaining casts and is returned with its timestamp.
func CastBatch(ctx context.Context, c Caster, stamps []string, workers int) ([]*ChartResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]*ChartResult, len(stamps))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, ts := range stamps {
		if egCtx.Err() != nil {
			break
		}
		i, ts := i, ts
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			res, err := c.Cast(ts)
			if err != nil {
				return fmt.Errorf("cast %s: %w", ts, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
