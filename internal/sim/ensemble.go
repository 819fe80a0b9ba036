package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Driver runs one engine of an ensemble to completion.
type Driver func(ctx context.Context, e *Engine) error

// Ensemble runs independent engines that differ only in turbulence seed.
// Each engine is confined to its own goroutine; options must not share
// mutable observers between runs.
type Ensemble struct {
	cfg       Config
	numRuns   int
	seedStart int64
	opts      []Option
}

func NewEnsemble(cfg Config, numRuns int, seedStart int64, opts ...Option) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, opts: opts}
}

// Run builds every engine, drives them concurrently and returns them in seed
// order. The first driver error cancels the rest.
func (en *Ensemble) Run(ctx context.Context, drive Driver) ([]*Engine, error) {
	engines := make([]*Engine, en.numRuns)
	for i := range engines {
		cfg := en.cfg
		cfg.Seed = en.seedStart + int64(i)
		e, err := New(cfg, en.opts...)
		if err != nil {
			return nil, err
		}
		engines[i] = e
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, e := range engines {
		e := e
		g.Go(func() error { return drive(gctx, e) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return engines, nil
}
