package simulator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RunBatch runs each simulator with the given shot count, at most limit at a
// time (limit <= 0 means unbounded). Results are returned in input order. The
// first failure cancels the simulators that have not started yet.
//
// The simulators must not share circuits that are still being built.
func RunBatch(ctx context.Context, sims []*Simulator, shots, limit int) ([]*Result, error) {
	results := make([]*Result, len(sims))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, sim := range sims {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := sim.Run(shots)
			if err != nil {
				return fmt.Errorf("simulator %d (%s): %w", i, sim.Name(), err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
