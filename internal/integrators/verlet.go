package integrators

import "github.com/san-kum/trajsim/internal/dynamo"

// Verlet is velocity Verlet. Drag and Magnus depend on velocity, so the
// end-of-step acceleration is sampled at a predicted velocity v + a·dt.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) Step(s *dynamo.ProjectileState, t, dt float64, accel AccelFunc) {
	p0, v0 := s.Position, s.Velocity
	a0 := accel(t, p0, v0)

	p1 := p0.Add(v0.Mul(dt)).Add(a0.Mul(0.5 * dt * dt))
	predicted := v0.Add(a0.Mul(dt))
	a1 := accel(t+dt, p1, predicted)

	s.Position = p1
	s.Velocity = v0.Add(a0.Add(a1).Mul(0.5 * dt))
}
