package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/dynamo"
)

const (
	// SpinDragTorque scales the quadratic torque opposing spin.
	SpinDragTorque = 0.02
	// VortexTorque scales the vortex-shedding torque perpendicular to spin and flow.
	VortexTorque = 0.002
	// PrecessionRate scales the gyroscopic nudge for asymmetric inertia.
	PrecessionRate = 0.02
)

// AerodynamicTorque returns the raw torque (N·m) from spin drag and vortex
// shedding, both proportional to ρ·r³.
func AerodynamicTorque(s *dynamo.ProjectileState, env dynamo.EnvironmentState, wind mgl64.Vec3) mgl64.Vec3 {
	omega := s.Spin.Len()
	if omega == 0 {
		return mgl64.Vec3{}
	}
	rho := LocalDensity(s.Position, env)
	r3 := s.Radius * s.Radius * s.Radius

	torque := s.Spin.Mul(-SpinDragTorque * rho * r3 * omega)

	rel := s.Velocity.Sub(wind)
	speed := rel.Len()
	if speed == 0 {
		return torque
	}
	axis := rel.Cross(s.Spin)
	if n := axis.Len(); n > 1e-12 {
		torque = torque.Add(axis.Mul(VortexTorque * rho * r3 * speed * omega / n))
	}
	return torque
}

// ApplyTorque advances spin by τ·I⁻¹·dt.
func ApplyTorque(s *dynamo.ProjectileState, torque mgl64.Vec3, dt float64) {
	s.Spin = s.Spin.Add(s.InverseInertia(torque).Mul(dt))
}

// IntegrateSpin applies quadratic angular damping ω ← ω/(1+k|ω|dt). The
// semi-implicit form never overshoots zero for k, dt ≥ 0.
func IntegrateSpin(spin mgl64.Vec3, damping, dt float64) mgl64.Vec3 {
	omega := spin.Len()
	if omega == 0 || damping <= 0 || dt <= 0 {
		return spin
	}
	return spin.Mul(1 / (1 + damping*omega*dt))
}

// IntegrateRotation advances q by dq = 0.5·(ω,0)·q·dt with a small precession
// nudge for asymmetric inertia, then renormalizes.
func IntegrateRotation(q mgl64.Quat, spin, inertia mgl64.Vec3, dt float64) mgl64.Quat {
	omega := spin.Len()
	if omega == 0 || dt == 0 {
		return q.Normalize()
	}

	w := spin
	if asym := inertiaAsymmetry(inertia); asym > 0 {
		axis := spin.Mul(1 / omega)
		perp := axis.Cross(dynamo.Up)
		if perp.Len() < 1e-9 {
			perp = axis.Cross(mgl64.Vec3{1, 0, 0})
		}
		w = w.Add(perp.Normalize().Mul(omega * PrecessionRate * asym))
	}

	dq := mgl64.Quat{W: 0, V: w}.Mul(q).Scale(0.5 * dt)
	return q.Add(dq).Normalize()
}

func inertiaAsymmetry(i mgl64.Vec3) float64 {
	hi := math.Max(i[0], math.Max(i[1], i[2]))
	lo := math.Min(i[0], math.Min(i[1], i[2]))
	if hi <= 0 {
		return 0
	}
	return (hi - lo) / hi
}
