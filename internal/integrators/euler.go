package integrators

import "github.com/san-kum/trajsim/internal/dynamo"

// Euler is semi-implicit (symplectic) Euler: velocity first, then position
// from the updated velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(s *dynamo.ProjectileState, t, dt float64, accel AccelFunc) {
	a := accel(t, s.Position, s.Velocity)
	s.Velocity = s.Velocity.Add(a.Mul(dt))
	s.Position = s.Position.Add(s.Velocity.Mul(dt))
}
