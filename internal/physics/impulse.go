package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/dynamo"
)

// ApplyImpulse applies impulse j (N·s) at offset r from the center of mass:
// Δv = j/m and Δω = I⁻¹(r × j).
func ApplyImpulse(s *dynamo.ProjectileState, j, r mgl64.Vec3) {
	s.Velocity = s.Velocity.Add(j.Mul(1 / s.Mass))
	s.Spin = s.Spin.Add(s.InverseInertia(r.Cross(j)))
}
