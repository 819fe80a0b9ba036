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

// Objective scores a settled launch; GridSearch keeps the highest score.
type Objective func(sim.Summary) float64

// MaxRange scores a launch by its horizontal range.
func MaxRange(s sim.Summary) float64 { return s.Range }

// MaxHeight scores a launch by its apex.
func MaxHeight(s sim.Summary) float64 { return s.MaxHeight }

// GridSearch tries every combination of the given sweep parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d parameters for %d ranges", ErrInvalidScenario, len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("%w: no values for %s", ErrInvalidScenario, params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Points returns every parameter combination, last parameter varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	var out []map[string]float64
	var walk func(depth int, current map[string]float64)
	walk = func(depth int, current map[string]float64) {
		if depth == len(g.paramNames) {
			out = append(out, current)
			return
		}
		for _, val := range g.ranges[depth] {
			next := make(map[string]float64, len(current)+1)
			for k, v := range current {
				next[k] = v
			}
			next[g.paramNames[depth]] = val
			walk(depth+1, next)
		}
	}
	walk(0, map[string]float64{})
	return out
}

// GridResult is the best point found by Search.
type GridResult struct {
	Params  map[string]float64
	Score   float64
	Summary sim.Summary
}

// Search runs l at every grid point and returns the point with the highest
// objective score. Points run concurrently.
func (g *GridSearch) Search(ctx context.Context, l Launch, base *config.Config, cat *catalog.Catalog, objective Objective, opts ...sim.Option) (*GridResult, error) {
	if l.Impulse != nil {
		return nil, fmt.Errorf("%w: manual launches cannot be searched", ErrInvalidScenario)
	}
	params, err := l.Parameters(cat, base.ToEnvironment())
	if err != nil {
		return nil, err
	}

	points := g.Points()
	summaries := make([]sim.Summary, len(points))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for i, pt := range points {
		i, pt := i, pt
		p := params
		p.Environment = params.Environment.Clone()
		for _, name := range g.paramNames {
			if err := (Sweep{Param: name}).apply(&p, pt[name]); err != nil {
				return nil, err
			}
		}
		eg.Go(func() error {
			e, err := base.NewEngine(opts...)
			if err != nil {
				return err
			}
			h, err := e.Launch(p)
			if err != nil {
				return err
			}
			if err := sim.RunUntilSettled(ctx, e, sim.DefaultFrame, DefaultTimeout); err != nil {
				return fmt.Errorf("%v: %w", pt, err)
			}
			rec, _ := e.Record(h.ID)
			summaries[i] = *rec.Summary
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	best := &GridResult{Score: math.Inf(-1)}
	for i, s := range summaries {
		if score := objective(s); score > best.Score {
			best.Params = points[i]
			best.Score = score
			best.Summary = s
		}
	}
	return best, nil
}
