package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/atmosphere"
	"github.com/san-kum/trajsim/internal/dynamo"
)

const (
	// MagnusVisibility exaggerates Magnus lift so curve balls read on screen.
	// It is a presentation constant, not a physical one: 1.0 is the plain
	// 0.5·ρ·A·Cl·(ω×v)/m model.
	MagnusVisibility = 1.5

	// SpinRatioEpsilon keeps S = rω/(v+ε) finite as v approaches zero.
	SpinRatioEpsilon = 0.01
)

// Gravity returns the constant downward acceleration (0, -g, 0).
func Gravity(env dynamo.EnvironmentState) mgl64.Vec3 {
	return mgl64.Vec3{0, -env.Gravity, 0}
}

// LocalDensity is the environment density corrected for the altitude of pos.
func LocalDensity(pos mgl64.Vec3, env dynamo.EnvironmentState) float64 {
	return atmosphere.AirDensityAtAltitude(math.Max(0, pos.Y()), env.AirDensity)
}

func viscosity(env dynamo.EnvironmentState) float64 {
	t := env.Temperature
	if t <= 0 {
		t = dynamo.StandardTemperature
	}
	return atmosphere.AirViscosity(t)
}

// Drag returns the quadratic drag acceleration opposing the air-relative
// velocity, with Cd chosen by Reynolds regime. Zero relative speed, zero
// density or a drag-free body return the zero vector.
func Drag(s *dynamo.ProjectileState, env dynamo.EnvironmentState, wind mgl64.Vec3) mgl64.Vec3 {
	rel := s.Velocity.Sub(wind)
	speed := rel.Len()
	if speed == 0 || s.DragCoefficient == 0 {
		return mgl64.Vec3{}
	}
	rho := LocalDensity(s.Position, env)
	if rho <= 0 {
		return mgl64.Vec3{}
	}

	re := atmosphere.ReynoldsNumber(speed, 2*s.Radius, rho, viscosity(env))
	cd := atmosphere.DragCoefficient(re, s.DragCoefficient)
	return rel.Mul(-0.5 * cd * rho * s.Area / s.Mass * speed)
}

// Magnus returns the lift acceleration of a spinning body, proportional to
// spin × v_rel. The lift coefficient is scaled down by spin damping.
func Magnus(s *dynamo.ProjectileState, env dynamo.EnvironmentState, wind mgl64.Vec3) mgl64.Vec3 {
	rel := s.Velocity.Sub(wind)
	speed := rel.Len()
	omega := s.Spin.Len()
	if speed == 0 || omega == 0 {
		return mgl64.Vec3{}
	}
	rho := LocalDensity(s.Position, env)
	if rho <= 0 {
		return mgl64.Vec3{}
	}

	ratio := s.Radius * omega / (speed + SpinRatioEpsilon)
	cl := atmosphere.MagnusLiftCoefficient(ratio) / (1 + s.SpinDamping)
	k := 0.5 * rho * s.Area * cl / s.Mass * MagnusVisibility
	return s.Spin.Cross(rel).Mul(k)
}

// Acceleration sums gravity, drag, Magnus lift and an external acceleration.
func Acceleration(s *dynamo.ProjectileState, env dynamo.EnvironmentState, wind, external mgl64.Vec3) mgl64.Vec3 {
	return Gravity(env).
		Add(Drag(s, env, wind)).
		Add(Magnus(s, env, wind)).
		Add(external)
}
