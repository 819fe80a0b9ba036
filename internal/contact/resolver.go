package contact

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/physics"
)

const (
	// GripRate is how fast (1/s per unit friction) rolling contact cancels
	// slip at the contact point.
	GripRate = 60.0
	// CreepDamping is the exponential decay rate (1/s) applied below
	// CreepSpeed.
	CreepDamping = 4.0
)

// Thresholds drive the phase classification.
type Thresholds struct {
	Tolerance         float64 `yaml:"contact_tolerance" json:"contact_tolerance"`
	CollisionSpeed    float64 `yaml:"collision_speed" json:"collision_speed"`
	RestSpeed         float64 `yaml:"rest_speed" json:"rest_speed"`
	RestVerticalSpeed float64 `yaml:"rest_vertical_speed" json:"rest_vertical_speed"`
	CreepSpeed        float64 `yaml:"creep_speed" json:"creep_speed"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Tolerance:         0.01,
		CollisionSpeed:    0.5,
		RestSpeed:         0.12,
		RestVerticalSpeed: 0.08,
		CreepSpeed:        0.4,
	}
}

// Impact describes one resolved ground collision.
type Impact struct {
	Speed       float64
	NormalSpeed float64
	Restitution float64
	Impulse     mgl64.Vec3
	Position    mgl64.Vec3
}

// Outcome is the result of one Resolve call.
type Outcome struct {
	Phase    dynamo.Phase
	Impact   *Impact
	Obstacle bool
}

// Resolver owns the ground model, surface material and obstacles for one
// engine. It holds no per-projectile state.
type Resolver struct {
	Ground     Ground
	Surface    Surface
	Policy     RestitutionPolicy
	Thresholds Thresholds
	Obstacles  []Box
}

func NewResolver() *Resolver {
	return &Resolver{
		Ground:     FlatGround{},
		Surface:    Grass.Surface(),
		Policy:     Static,
		Thresholds: DefaultThresholds(),
	}
}

// Gap is the signed clearance between the bottom of the body and the ground
// directly beneath it.
func (r *Resolver) Gap(s *dynamo.ProjectileState) float64 {
	return s.Position.Y() - s.Radius - r.Ground.Height(s.Position.X(), s.Position.Z())
}

// Classify returns Airborne, Colliding or Grounded for s against the ground.
func (r *Resolver) Classify(s *dynamo.ProjectileState) dynamo.Phase {
	if r.Gap(s) > r.Thresholds.Tolerance {
		return dynamo.Airborne
	}
	n := r.Ground.Normal(s.Position.X(), s.Position.Z())
	vn := s.Velocity.Dot(n)
	switch {
	case vn < -r.Thresholds.CollisionSpeed:
		return dynamo.Colliding
	case vn > r.Thresholds.CollisionSpeed:
		return dynamo.Airborne
	default:
		return dynamo.Grounded
	}
}

// AtRest reports whether s is slow enough to settle.
func (r *Resolver) AtRest(s *dynamo.ProjectileState) bool {
	return s.Velocity.Len() < r.Thresholds.RestSpeed &&
		math.Abs(s.Velocity.Y()) < r.Thresholds.RestVerticalSpeed
}

// Resolve classifies s and applies the matching contact response, then
// resolves obstacle overlap. gravity is the magnitude used for rolling
// resistance.
func (r *Resolver) Resolve(s *dynamo.ProjectileState, gravity, dt float64) Outcome {
	out := Outcome{Phase: r.Classify(s)}
	switch out.Phase {
	case dynamo.Colliding:
		imp := r.Collide(s)
		out.Impact = &imp
	case dynamo.Grounded:
		r.Roll(s, gravity, dt)
	}
	for i := range r.Obstacles {
		if r.Obstacles[i].Collide(s) {
			out.Obstacle = true
		}
	}
	return out
}

// Collide applies the restitution and friction impulses at the contact point
// and places the body exactly on the ground.
func (r *Resolver) Collide(s *dynamo.ProjectileState) Impact {
	x, z := s.Position.X(), s.Position.Z()
	n := r.Ground.Normal(x, z)
	offset := n.Mul(-s.Radius)

	vc := s.Velocity.Add(s.Spin.Cross(offset))
	vn := vc.Dot(n)
	imp := Impact{Speed: s.Velocity.Len(), NormalSpeed: vn, Position: s.Position}

	if vn < 0 {
		e := r.Policy.Effective(s.Restitution*r.Surface.Restitution, vn)
		jn := -(1 + e) * vn / r.denominator(s, offset, n)

		impulse := n.Mul(jn)
		vt := vc.Sub(n.Mul(vn))
		if slip := vt.Len(); slip > 1e-9 {
			t := vt.Mul(1 / slip)
			jt := slip / r.denominator(s, offset, t)
			jt = math.Min(jt, r.Surface.Friction*jn)
			impulse = impulse.Sub(t.Mul(jt))
		}

		physics.ApplyImpulse(s, impulse, offset)
		imp.Restitution = e
		imp.Impulse = impulse
	}

	s.Position[1] = r.Ground.Height(x, z) + s.Radius
	return imp
}

// Roll applies grounded friction for one step: part of the impulse that would
// cancel contact-point slip, Coulomb rolling resistance, and exponential
// damping below CreepSpeed. Inward normal velocity is removed.
func (r *Resolver) Roll(s *dynamo.ProjectileState, gravity, dt float64) {
	x, z := s.Position.X(), s.Position.Z()
	n := r.Ground.Normal(x, z)
	offset := n.Mul(-s.Radius)

	r.support(s, n)

	vc := s.Velocity.Add(s.Spin.Cross(offset))
	vt := vc.Sub(n.Mul(vc.Dot(n)))
	if slip := vt.Len(); slip > 1e-9 {
		t := vt.Mul(1 / slip)
		full := slip / r.denominator(s, offset, t)
		frac := math.Min(1, GripRate*r.Surface.Friction*dt)
		physics.ApplyImpulse(s, t.Mul(-full*frac), offset)
	}

	tangent := s.Velocity.Sub(n.Mul(s.Velocity.Dot(n)))
	speed := tangent.Len()
	if speed == 0 {
		s.Spin = s.Spin.Mul(math.Exp(-CreepDamping * dt))
		return
	}

	scale := 1.0
	if dec := r.Surface.RollingResistance * gravity * dt; speed <= dec {
		scale = 0
	} else {
		scale = (speed - dec) / speed
	}
	if speed < r.Thresholds.CreepSpeed {
		scale *= math.Exp(-CreepDamping * dt)
	}

	s.Velocity = s.Velocity.Sub(tangent.Mul(1 - scale))
	s.Spin = s.Spin.Mul(scale)
}

// Support keeps s on or above the ground without friction. The engine uses
// it while a launch force is still being applied.
func (r *Resolver) Support(s *dynamo.ProjectileState) {
	r.support(s, r.Ground.Normal(s.Position.X(), s.Position.Z()))
}

func (r *Resolver) support(s *dynamo.ProjectileState, n mgl64.Vec3) {
	floor := r.Ground.Height(s.Position.X(), s.Position.Z()) + s.Radius
	if s.Position.Y() < floor {
		s.Position[1] = floor
	}
	if vn := s.Velocity.Dot(n); vn < 0 && r.Gap(s) <= r.Thresholds.Tolerance {
		s.Velocity = s.Velocity.Sub(n.Mul(vn))
	}
}

// denominator is 1/m + (r×d)·I⁻¹(r×d), the effective inverse mass along d at
// contact offset r.
func (r *Resolver) denominator(s *dynamo.ProjectileState, offset, d mgl64.Vec3) float64 {
	rd := offset.Cross(d)
	return 1/s.Mass + rd.Dot(s.InverseInertia(rd))
}
