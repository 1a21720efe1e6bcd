package experiment

import (
	"context"
	"runtime"
	"time"

	"github.com/san-kum/eomsim/internal/config"
	"github.com/san-kum/eomsim/internal/driver"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one run of a batch.
type Outcome struct {
	Config  *config.Config
	Result  *driver.Result
	Elapsed time.Duration
	Err     error
}

// RunAll runs every config on its own goroutine, at most workers at a
// time (GOMAXPROCS when workers <= 0). Each run builds its own model and
// stepper, so no state is shared between goroutines. A failed run is
// reported in its Outcome and does not stop the others; cancelling ctx
// does.
func RunAll(ctx context.Context, r *Registry, cfgs []*config.Config, workers int) []Outcome {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	outcomes := make([]Outcome, len(cfgs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, cfg := range cfgs {
		i, cfg := i, cfg
		outcomes[i].Config = cfg
		g.Go(func() error {
			exp := New(cfg)
			if err := exp.Setup(r); err != nil {
				outcomes[i].Err = err
				return nil
			}
			start := time.Now()
			outcomes[i].Result, outcomes[i].Err = exp.Run(ctx)
			outcomes[i].Elapsed = time.Since(start)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}
