package director

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/autocam/internal/config"
)

// GenerateVariants runs Generate once per settings variant, at most workers
// at a time, and returns the results in variant order. Runs share no state.
// Cancelling ctx stops variants that have not started yet; a started run
// always completes.
func (d *Director) GenerateVariants(ctx context.Context, in Input, variants []config.Settings, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(variants))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, settings := range variants {
		i, settings := i, settings
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = New(settings, d.Logger.With("variant", i)).Generate(in)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
