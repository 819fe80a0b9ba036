package scenario

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/san-kum/trajsim/internal/catalog"
	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/sim"
	"golang.org/x/sync/errgroup"
)

// Sweep parameters.
const (
	ParamElevation = "elevation" // degrees
	ParamHeading   = "heading"   // degrees
	ParamForce     = "force"     // peak force, N
	ParamSpin      = "spin"      // spin rate, rad/s
	ParamWind      = "wind"      // head/tail wind along +X, m/s
)

// SweepParams lists the parameters a Sweep can vary.
func SweepParams() []string {
	return []string{ParamElevation, ParamHeading, ParamForce, ParamSpin, ParamWind}
}

// Sweep varies one launch parameter over [Min, Max] in Steps evenly spaced
// points, one engine per point.
type Sweep struct {
	Launch Launch
	Param  string
	Min    float64
	Max    float64
	Steps  int
	// Limit bounds each point in simulated seconds.
	Limit float64
}

// SweepResult is the settled summary for one parameter value.
type SweepResult struct {
	Value   float64
	Summary sim.Summary
}

// Values returns the parameter values the sweep visits.
func (sw Sweep) Values() []float64 {
	if sw.Steps <= 1 {
		return []float64{sw.Min}
	}
	step := (sw.Max - sw.Min) / float64(sw.Steps-1)
	vals := make([]float64, sw.Steps)
	for i := range vals {
		vals[i] = sw.Min + float64(i)*step
	}
	return vals
}

func (sw Sweep) apply(p *sim.LaunchParameters, v float64) error {
	switch sw.Param {
	case ParamElevation:
		p.Profile.Elevation = v * math.Pi / 180
	case ParamHeading:
		p.Profile.Heading = v * math.Pi / 180
	case ParamForce:
		p.Profile.PeakForce = v
	case ParamSpin:
		p.Profile.SpinRate = v
	case ParamWind:
		p.Environment.Wind[0] = v
	default:
		return fmt.Errorf("%w: unknown sweep parameter %q", ErrInvalidScenario, sw.Param)
	}
	return nil
}

// RunSweep runs every point of sw concurrently and returns results in
// parameter order.
func RunSweep(ctx context.Context, sw Sweep, base *config.Config, cat *catalog.Catalog, opts ...sim.Option) ([]SweepResult, error) {
	if sw.Launch.Impulse != nil {
		return nil, fmt.Errorf("%w: manual launches cannot be swept", ErrInvalidScenario)
	}
	params, err := sw.Launch.Parameters(cat, base.ToEnvironment())
	if err != nil {
		return nil, err
	}
	limit := sw.Limit
	if limit <= 0 {
		limit = DefaultTimeout
	}

	vals := sw.Values()
	results := make([]SweepResult, len(vals))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, v := range vals {
		i, v := i, v
		p := params
		p.Environment = params.Environment.Clone()
		if err := sw.apply(&p, v); err != nil {
			return nil, err
		}
		g.Go(func() error {
			e, err := base.NewEngine(opts...)
			if err != nil {
				return err
			}
			h, err := e.Launch(p)
			if err != nil {
				return err
			}
			if err := sim.RunUntilSettled(gctx, e, sim.DefaultFrame, limit); err != nil {
				return fmt.Errorf("%s=%g: %w", sw.Param, v, err)
			}
			rec, _ := e.Record(h.ID)
			results[i] = SweepResult{Value: v, Summary: *rec.Summary}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Best returns the result with the longest range.
func Best(results []SweepResult) (SweepResult, bool) {
	if len(results) == 0 {
		return SweepResult{}, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Summary.Range > best.Summary.Range {
			best = r
		}
	}
	return best, true
}
