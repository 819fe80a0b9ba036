package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/catalog"
	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/contact"
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/metrics"
	"github.com/san-kum/trajsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// DefaultTimeout bounds a scenario in simulated seconds.
const DefaultTimeout = 120.0

var (
	// ErrInvalidScenario indicates a scenario file that cannot be run.
	ErrInvalidScenario = errors.New("scenario: invalid scenario")

	// ErrTimeout indicates projectiles still in flight when the timeout ran out.
	ErrTimeout = errors.New("scenario: timed out")
)

// Scenario is a scripted sequence of launches sharing one engine.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Preset      string   `yaml:"preset,omitempty"`
	Surface     string   `yaml:"surface,omitempty"`
	Seed        *int64   `yaml:"seed,omitempty"`
	Timeout     float64  `yaml:"timeout,omitempty"`
	Launches    []Launch `yaml:"launches"`
}

// Launch fires one projectile At seconds after the scenario starts. Setting
// Impulse makes it a manual launch and Profile may then be left empty.
type Launch struct {
	At         float64     `yaml:"at"`
	Profile    string      `yaml:"profile,omitempty"`
	Projectile string      `yaml:"projectile"`
	Wind       *mgl64.Vec3 `yaml:"wind,omitempty"`
	Tint       string      `yaml:"tint,omitempty"`
	Label      string      `yaml:"label,omitempty"`
	Impulse    *mgl64.Vec3 `yaml:"impulse,omitempty"`
	Offset     mgl64.Vec3  `yaml:"offset,omitempty"`
	Origin     *mgl64.Vec3 `yaml:"origin,omitempty"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks every launch against cat.
func (sc *Scenario) Validate(cat *catalog.Catalog) error {
	if len(sc.Launches) == 0 {
		return fmt.Errorf("%w: no launches", ErrInvalidScenario)
	}
	if sc.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidScenario)
	}
	if sc.Surface != "" {
		if _, err := contact.ParseSurface(sc.Surface); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
		}
	}
	for i, l := range sc.Launches {
		if l.At < 0 {
			return fmt.Errorf("%w: launch %d at %gs", ErrInvalidScenario, i, l.At)
		}
		if _, err := l.Parameters(cat, dynamo.DefaultEnvironment()); err != nil {
			return fmt.Errorf("%w: launch %d: %v", ErrInvalidScenario, i, err)
		}
	}
	return nil
}

// Parameters resolves the launch against cat. A launch wind replaces the
// wind of env.
func (l Launch) Parameters(cat *catalog.Catalog, env dynamo.EnvironmentState) (sim.LaunchParameters, error) {
	proj, err := cat.Projectile(l.Projectile)
	if err != nil {
		return sim.LaunchParameters{}, err
	}
	p := sim.LaunchParameters{
		Projectile:  proj,
		Environment: env.Clone(),
		Tint:        l.Tint,
		Label:       l.Label,
		Origin:      l.Origin,
	}
	if l.Wind != nil {
		p.Environment.Wind = *l.Wind
	}
	if l.Impulse != nil {
		p.Manual = &sim.ManualLaunchConfig{Impulse: *l.Impulse, Offset: l.Offset}
		return p, nil
	}
	if p.Profile, err = cat.Profile(l.Profile); err != nil {
		return sim.LaunchParameters{}, err
	}
	return p, nil
}

// Resolve returns base with the scenario's preset, surface and seed applied.
// base is not modified.
func (sc *Scenario) Resolve(base *config.Config) (*config.Config, error) {
	cfg := *base
	cfg.Obstacles = append([]config.ObstacleConfig(nil), base.Obstacles...)
	if sc.Preset != "" {
		if err := cfg.ApplyPreset(sc.Preset); err != nil {
			return nil, err
		}
	}
	if sc.Surface != "" {
		st, err := contact.ParseSurface(sc.Surface)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
		}
		cfg.Engine.Surface = st
	}
	if sc.Seed != nil {
		cfg.Engine.Seed = *sc.Seed
	}
	return &cfg, nil
}

// Result is the outcome of one scenario run.
type Result struct {
	Name    string
	Config  *config.Config
	Records []*sim.LaunchRecord
	// Metrics holds the standard metric values per launch.
	Metrics map[dynamo.LaunchID]map[string]float64
	// Elapsed is simulated time in seconds.
	Elapsed float64
}

// RunScenario launches every entry of sc at its scheduled time and runs the
// engine until all projectiles settle. On timeout or cancellation the partial
// result is returned with the error.
func RunScenario(ctx context.Context, sc *Scenario, base *config.Config, cat *catalog.Catalog, opts ...sim.Option) (*Result, error) {
	if err := sc.Validate(cat); err != nil {
		return nil, err
	}
	cfg, err := sc.Resolve(base)
	if err != nil {
		return nil, err
	}

	ms := metrics.All()
	for _, m := range ms {
		opts = append(opts, sim.WithObserver(m))
	}
	e, err := cfg.NewEngine(opts...)
	if err != nil {
		return nil, err
	}

	pending := append([]Launch(nil), sc.Launches...)
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].At < pending[j].At })

	timeout := sc.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	env := cfg.ToEnvironment()

	res := &Result{Name: sc.Name, Config: cfg}
	finish := func() *Result {
		res.Records = e.GetLaunchRecords()
		res.Elapsed = e.Time()
		res.Metrics = make(map[dynamo.LaunchID]map[string]float64, len(res.Records))
		for _, r := range res.Records {
			vals := make(map[string]float64, len(ms))
			for _, m := range ms {
				vals[m.Name()] = m.Value(r.ID)
			}
			res.Metrics[r.ID] = vals
		}
		return res
	}

	for {
		select {
		case <-ctx.Done():
			return finish(), ctx.Err()
		default:
		}

		for len(pending) > 0 && pending[0].At <= e.Time()+1e-9 {
			p, err := pending[0].Parameters(cat, env)
			if err != nil {
				return finish(), err
			}
			if _, err := e.Launch(p); err != nil {
				return finish(), err
			}
			pending = pending[1:]
		}

		if len(pending) == 0 && e.Active() == 0 {
			return finish(), nil
		}
		if e.Time() >= timeout {
			return finish(), fmt.Errorf("%w: %d active, %d pending after %.1fs", ErrTimeout, e.Active(), len(pending), timeout)
		}
		e.Update(sim.DefaultFrame)
	}
}
