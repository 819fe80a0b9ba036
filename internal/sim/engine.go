package sim

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/san-kum/trajsim/internal/catalog"
	"github.com/san-kum/trajsim/internal/contact"
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/integrators"
	"github.com/san-kum/trajsim/internal/physics"
	"github.com/san-kum/trajsim/internal/turbulence"
)

// instance is the runtime wrapper around one in-flight projectile.
type instance struct {
	id      dynamo.LaunchID
	state   *dynamo.ProjectileState
	env     dynamo.EnvironmentState
	profile catalog.ForceProfile
	manual  bool
	record  *LaunchRecord
	color   string

	age        float64
	nextSample float64
	phase      dynamo.Phase
	bounces    int
	impact     float64
	settled    bool
}

// Engine advances every active projectile in fixed steps.
type Engine struct {
	cfg        Config
	log        zerolog.Logger
	integrator integrators.Integrator
	resolver   *contact.Resolver
	field      *turbulence.Field
	observers  []dynamo.Observer

	active  []*instance
	records []*LaunchRecord
	nextID  dynamo.LaunchID

	time        float64
	accumulator float64
}

// New validates cfg and builds an engine with a flat ground, RK4 and a
// silent logger unless options say otherwise.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := contact.NewResolver()
	r.Surface = cfg.Surface.Surface()
	r.Policy = cfg.Restitution
	r.Thresholds = cfg.Thresholds
	r.Obstacles = append([]contact.Box(nil), cfg.Obstacles...)

	e := &Engine{
		cfg:        cfg,
		log:        zerolog.Nop(),
		integrator: integrators.NewRK4(),
		resolver:   r,
		field:      turbulence.New(cfg.Seed),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Config() Config { return e.cfg }

// Time is the total simulated time consumed by fixed steps.
func (e *Engine) Time() float64 { return e.time }

func (e *Engine) AddObserver(o dynamo.Observer) {
	e.observers = append(e.observers, o)
}

// SetSurfaceType swaps the ground material for every projectile.
func (e *Engine) SetSurfaceType(t contact.SurfaceType) {
	e.cfg.Surface = t
	e.resolver.Surface = t.Surface()
}

// Launch creates a projectile from p and registers its record. The
// environment is copied, so later changes by the caller do not reach the
// projectile. An invalid definition or profile is rejected.
func (e *Engine) Launch(p LaunchParameters) (LaunchHandle, error) {
	if err := p.Projectile.Validate(); err != nil {
		return LaunchHandle{}, fmt.Errorf("launch: %w", err)
	}
	if p.Manual == nil {
		if err := p.Profile.Validate(); err != nil {
			return LaunchHandle{}, fmt.Errorf("launch: %w", err)
		}
	}

	origin := e.launchPoint(p)
	s := p.Projectile.NewState(origin)
	if p.Manual != nil {
		physics.ApplyImpulse(s, p.Manual.Impulse, p.Manual.Offset)
	}

	color := p.Tint
	if color == "" {
		color = p.Projectile.Color
	}

	id := e.nextID
	e.nextID++
	rec := &LaunchRecord{
		ID:    id,
		Color: color,
		Labels: Labels{
			Profile:    p.Profile.ID,
			Projectile: p.Projectile.ID,
			Label:      p.Label,
		},
		Origin: origin,
	}
	in := &instance{
		id:         id,
		state:      s,
		env:        p.Environment.Clone(),
		profile:    p.Profile,
		manual:     p.Manual != nil,
		record:     rec,
		color:      color,
		nextSample: e.cfg.TelemetryInterval,
	}
	if in.manual {
		in.record.Labels.Profile = "manual"
	}
	e.sample(in)

	e.records = append(e.records, rec)
	e.active = append(e.active, in)

	e.log.Debug().
		Int("id", int(id)).
		Str("profile", rec.Labels.Profile).
		Str("projectile", p.Projectile.ID).
		Bool("manual", in.manual).
		Floats64("origin", origin[:]).
		Msg("launch")

	return LaunchHandle{ID: id}, nil
}

func (e *Engine) launchPoint(p LaunchParameters) mgl64.Vec3 {
	switch {
	case p.Origin != nil:
		return *p.Origin
	case p.Profile.LaunchPosition != nil && p.Manual == nil:
		return *p.Profile.LaunchPosition
	}
	return mgl64.Vec3{0, e.resolver.Ground.Height(0, 0) + p.Projectile.Radius, 0}
}

// Update advances the simulation by a frame delta of dt seconds.
func (e *Engine) Update(dt float64) {
	if !(dt > 0) {
		return
	}
	frame := math.Min(dt, e.cfg.MaxFrameDelta) * e.cfg.TimeScale
	e.field.Update(frame)
	e.accumulator += frame

	step := e.cfg.Step
	for e.accumulator >= step {
		for _, in := range e.active {
			if !in.settled {
				e.advance(in, step)
			}
		}
		e.accumulator -= step
		e.time += step
	}

	e.retire()
}

func (e *Engine) retire() {
	kept := e.active[:0]
	for _, in := range e.active {
		if !in.settled {
			kept = append(kept, in)
		}
	}
	for i := len(kept); i < len(e.active); i++ {
		e.active[i] = nil
	}
	e.active = kept
}

// subdivisions returns how many sub-steps the projectile takes this step.
func (e *Engine) subdivisions(in *instance, step float64) int {
	n := 1
	if in.state.Velocity.Len() > e.cfg.FastSpeed {
		n *= 2
	}
	if e.resolver.Gap(in.state) < e.cfg.NearGround {
		n *= 2
	}
	for n > 1 && step/float64(n) < e.cfg.MinStep {
		n /= 2
	}
	return n
}

func (e *Engine) advance(in *instance, step float64) {
	n := e.subdivisions(in, step)
	h := step / float64(n)
	for i := 0; i < n && !in.settled; i++ {
		e.substep(in, h)
	}
}

func (e *Engine) substep(in *instance, h float64) {
	s := in.state
	t := in.age
	launching := !in.manual && in.profile.Active(t)

	if launching {
		s.Spin = in.profile.Spin()
	}

	wind := e.wind(s.Position, in.env)
	probe := *s
	e.integrator.Step(s, t, h, func(tt float64, pos, vel mgl64.Vec3) mgl64.Vec3 {
		probe.Position, probe.Velocity = pos, vel
		var push mgl64.Vec3
		if !in.manual {
			push = in.profile.Force(tt).Mul(1 / probe.Mass)
		}
		return physics.Acceleration(&probe, in.env, wind, push)
	})

	physics.ApplyTorque(s, physics.AerodynamicTorque(s, in.env, wind), h)
	s.Spin = physics.IntegrateSpin(s.Spin, s.SpinDamping, h)
	s.Rotation = physics.IntegrateRotation(s.Rotation, s.Spin, s.MomentOfInertia, h)

	if launching {
		e.resolver.Support(s)
		in.phase = e.resolver.Classify(s)
		if in.phase == dynamo.Colliding {
			in.phase = dynamo.Grounded
		}
	} else {
		out := e.resolver.Resolve(s, in.env.Gravity, h)
		in.phase = out.Phase
		if out.Impact != nil {
			in.bounces++
			in.impact = out.Impact.Speed
			e.log.Debug().
				Int("id", int(in.id)).
				Float64("t", t+h).
				Float64("speed", out.Impact.Speed).
				Float64("restitution", out.Impact.Restitution).
				Msg("impact")
		}
	}
	in.age += h

	for _, o := range e.observers {
		o.OnStep(in.id, in.phase, s, in.env, in.age)
	}

	if in.age >= in.nextSample {
		e.sample(in)
		in.nextSample += e.cfg.TelemetryInterval
	}

	switch {
	case !s.IsValid():
		e.log.Error().Int("id", int(in.id)).Float64("t", in.age).Msg("non-finite state, retiring projectile")
		e.settle(in, true)
	case !launching && in.phase != dynamo.Airborne && e.resolver.AtRest(s):
		e.settle(in, false)
	case in.age >= e.cfg.MaxFlightTime:
		e.log.Warn().Int("id", int(in.id)).Float64("t", in.age).Msg("max flight time reached, forcing settle")
		e.settle(in, true)
	}
}

// wind is the turbulent local wind plus a ground-faded gust when gusts are
// enabled and the base wind is not calm.
func (e *Engine) wind(pos mgl64.Vec3, env dynamo.EnvironmentState) mgl64.Vec3 {
	w := e.field.Turbulence(pos, env.Wind)
	if e.cfg.Gusts && env.Wind.Len() > 0 {
		gust := e.field.Gust(pos, e.field.Time())
		w = w.Add(gust.Mul(turbulence.GroundFade(pos.Y())))
	}
	return w
}

func (e *Engine) sample(in *instance) {
	s := in.state
	in.record.Samples = append(in.record.Samples, TelemetrySample{
		Time:     in.age,
		Altitude: s.Altitude(),
		Speed:    s.Velocity.Len(),
		Range:    s.PlanarRange(in.record.Origin),
		Velocity: s.Velocity,
		Position: s.Position,
	})
}

func (e *Engine) settle(in *instance, forced bool) {
	if in.settled {
		return
	}
	in.settled = true
	in.phase = dynamo.Settled
	if in.record.Samples[len(in.record.Samples)-1].Time != in.age {
		e.sample(in)
	}

	sum := &Summary{
		FlightTime: in.age,
		Bounces:    in.bounces,
		Forced:     forced,
	}
	for _, smp := range in.record.Samples {
		sum.MaxHeight = math.Max(sum.MaxHeight, smp.Altitude)
		sum.Range = math.Max(sum.Range, smp.Range)
	}
	sum.ImpactSpeed = in.impact
	if in.bounces == 0 {
		sum.ImpactSpeed = in.state.Velocity.Len()
	}
	in.record.Summary = sum

	for _, o := range e.observers {
		o.OnStep(in.id, dynamo.Settled, in.state, in.env, in.age)
	}

	e.log.Info().
		Int("id", int(in.id)).
		Float64("max_height", sum.MaxHeight).
		Float64("range", sum.Range).
		Float64("flight_time", sum.FlightTime).
		Float64("impact_speed", sum.ImpactSpeed).
		Int("bounces", sum.Bounces).
		Bool("forced", forced).
		Msg("settled")
}

// GetLaunchRecords returns every record in launch order. The records are
// shared with the engine: active ones keep growing, so callers that want live
// data should call again rather than copy.
func (e *Engine) GetLaunchRecords() []*LaunchRecord {
	return append([]*LaunchRecord(nil), e.records...)
}

// Record looks up a launch record by id.
func (e *Engine) Record(id dynamo.LaunchID) (*LaunchRecord, bool) {
	for _, r := range e.records {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// GetActiveProjectiles lists projectiles still in flight or rolling.
func (e *Engine) GetActiveProjectiles() []ActiveProjectile {
	out := make([]ActiveProjectile, 0, len(e.active))
	for _, in := range e.active {
		if in.settled {
			continue
		}
		out = append(out, ActiveProjectile{
			ID:       in.id,
			Position: in.state.Position,
			Rotation: in.state.Rotation,
			Color:    in.color,
		})
	}
	return out
}

// Active reports the number of projectiles still being simulated.
func (e *Engine) Active() int {
	return len(e.GetActiveProjectiles())
}

// Snapshot returns a copy of the state of an active projectile and its
// current phase.
func (e *Engine) Snapshot(h LaunchHandle) (dynamo.ProjectileState, dynamo.Phase, bool) {
	for _, in := range e.active {
		if in.id == h.ID && !in.settled {
			return *in.state.Clone(), in.phase, true
		}
	}
	return dynamo.ProjectileState{}, dynamo.Settled, false
}

// Reset drops every projectile and record and restarts the turbulence field
// from the configured seed. Launch ids keep increasing.
func (e *Engine) Reset() {
	e.active = nil
	e.records = nil
	e.time = 0
	e.accumulator = 0
	e.field = turbulence.New(e.cfg.Seed)
	for _, o := range e.observers {
		if m, ok := o.(dynamo.Metric); ok {
			m.Reset()
		}
	}
}
