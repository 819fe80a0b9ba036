package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// StandardGravity is the default gravity magnitude in m/s².
	StandardGravity = 9.81
	// SeaLevelDensity is the ISA air density at sea level in kg/m³.
	SeaLevelDensity = 1.225
	// StandardTemperature is the ISA temperature at sea level in kelvin.
	StandardTemperature = 288.15
)

// Up is the world up axis.
var Up = mgl64.Vec3{0, 1, 0}

// LaunchID identifies one launch for the lifetime of an engine.
type LaunchID int

// ProjectileState is the rigid-body state of one in-flight projectile.
type ProjectileState struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Spin     mgl64.Vec3
	Rotation mgl64.Quat

	Mass            float64
	Area            float64
	DragCoefficient float64
	SpinDamping     float64
	Restitution     float64
	MomentOfInertia mgl64.Vec3
	Radius          float64
}

// Clone returns an independent copy. All fields are values, so a plain copy
// is enough; the method exists so call sites read as intent.
func (s *ProjectileState) Clone() *ProjectileState {
	c := *s
	return &c
}

// IsValid reports whether every kinematic component is finite.
func (s *ProjectileState) IsValid() bool {
	for _, v := range [...]mgl64.Vec3{s.Position, s.Velocity, s.Spin} {
		for _, c := range v {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return false
			}
		}
	}
	q := s.Rotation
	for _, c := range [...]float64{q.W, q.V[0], q.V[1], q.V[2]} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// InverseInertia applies the diagonal inverse inertia tensor to v.
func (s *ProjectileState) InverseInertia(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		v[0] / s.MomentOfInertia[0],
		v[1] / s.MomentOfInertia[1],
		v[2] / s.MomentOfInertia[2],
	}
}

// KineticEnergy is the translational kinetic energy in joules.
func (s *ProjectileState) KineticEnergy() float64 {
	return 0.5 * s.Mass * s.Velocity.LenSqr()
}

// RotationalEnergy is 0.5·Σ I_i·ω_i² about the principal axes.
func (s *ProjectileState) RotationalEnergy() float64 {
	e := 0.0
	for i := 0; i < 3; i++ {
		e += s.MomentOfInertia[i] * s.Spin[i] * s.Spin[i]
	}
	return 0.5 * e
}

// Altitude is the height of the lowest point of the body above y=0.
func (s *ProjectileState) Altitude() float64 {
	return s.Position.Y() - s.Radius
}

// PlanarRange is the horizontal distance from origin in the XZ plane.
func (s *ProjectileState) PlanarRange(origin mgl64.Vec3) float64 {
	dx := s.Position.X() - origin.X()
	dz := s.Position.Z() - origin.Z()
	return math.Hypot(dx, dz)
}

// EnvironmentState describes the air and gravity a projectile flies through.
type EnvironmentState struct {
	Gravity     float64    `yaml:"gravity" json:"gravity"`
	Wind        mgl64.Vec3 `yaml:"wind" json:"wind"`
	AirDensity  float64    `yaml:"air_density" json:"air_density"`
	Temperature float64    `yaml:"temperature" json:"temperature"`
}

// DefaultEnvironment is calm sea-level air under standard gravity.
func DefaultEnvironment() EnvironmentState {
	return EnvironmentState{
		Gravity:     StandardGravity,
		AirDensity:  SeaLevelDensity,
		Temperature: StandardTemperature,
	}
}

// Clone returns a copy detached from the receiver.
func (e EnvironmentState) Clone() EnvironmentState {
	return e
}

// Phase is the contact state of a projectile.
type Phase int

const (
	Airborne Phase = iota
	Grounded
	Colliding
	Settled
)

func (p Phase) String() string {
	switch p {
	case Airborne:
		return "airborne"
	case Grounded:
		return "grounded"
	case Colliding:
		return "colliding"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// Observer receives every sub-step of every active projectile. Phase is the
// phase after contact resolution for that sub-step; t is seconds since launch.
type Observer interface {
	OnStep(id LaunchID, phase Phase, s *ProjectileState, env EnvironmentState, t float64)
}

// Metric accumulates a scalar over the lifetime of one launch.
type Metric interface {
	Observer
	Name() string
	Value(id LaunchID) float64
	Reset()
}
