package scenario

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/trajsim/internal/catalog"
	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/integrators"
	"github.com/san-kum/trajsim/internal/sim"
)

// SpreadResult holds the summaries of one launch repeated across turbulence
// seeds.
type SpreadResult struct {
	Seeds     []int64
	Summaries []sim.Summary
}

// RangeStats returns the mean and standard deviation of the range.
func (r SpreadResult) RangeStats() (mean, std float64) {
	return stats(r.Summaries, func(s sim.Summary) float64 { return s.Range })
}

// HeightStats returns the mean and standard deviation of the apex height.
func (r SpreadResult) HeightStats() (mean, std float64) {
	return stats(r.Summaries, func(s sim.Summary) float64 { return s.MaxHeight })
}

func stats(ss []sim.Summary, f func(sim.Summary) float64) (mean, std float64) {
	if len(ss) == 0 {
		return 0, 0
	}
	for _, s := range ss {
		mean += f(s)
	}
	mean /= float64(len(ss))
	for _, s := range ss {
		d := f(s) - mean
		std += d * d
	}
	return mean, math.Sqrt(std / float64(len(ss)))
}

// RunSpread repeats l on runs engines seeded seedStart, seedStart+1, ...
// Only the turbulence field differs between runs, so calm presets give
// identical summaries.
func RunSpread(ctx context.Context, l Launch, runs int, seedStart int64, base *config.Config, cat *catalog.Catalog, opts ...sim.Option) (*SpreadResult, error) {
	if runs <= 0 {
		return nil, fmt.Errorf("%w: runs must be positive", ErrInvalidScenario)
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	p, err := l.Parameters(cat, base.ToEnvironment())
	if err != nil {
		return nil, err
	}

	integ, err := integrators.New(base.Integrator)
	if err != nil {
		return nil, err
	}
	// Integrators are stateless, so one instance serves every run.
	opts = append([]sim.Option{sim.WithIntegrator(integ), sim.WithGround(base.GroundModel())}, opts...)
	en := sim.NewEnsemble(base.ToEngine(), runs, seedStart, opts...)
	engines, err := en.Run(ctx, func(ctx context.Context, e *sim.Engine) error {
		lp := p
		lp.Environment = p.Environment.Clone()
		if _, err := e.Launch(lp); err != nil {
			return err
		}
		return sim.RunUntilSettled(ctx, e, sim.DefaultFrame, DefaultTimeout)
	})
	if err != nil {
		return nil, err
	}

	res := &SpreadResult{
		Seeds:     make([]int64, len(engines)),
		Summaries: make([]sim.Summary, len(engines)),
	}
	for i, e := range engines {
		res.Seeds[i] = e.Config().Seed
		res.Summaries[i] = *e.GetLaunchRecords()[0].Summary
	}
	return res, nil
}
