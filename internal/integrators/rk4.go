package integrators

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/dynamo"
)

// RK4 is the classical fourth-order Runge-Kutta scheme over (position,
// velocity). Every stage evaluates accel on a trial state built from the
// start-of-step values; s is written once, after the fourth stage.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(s *dynamo.ProjectileState, t, dt float64, accel AccelFunc) {
	p0, v0 := s.Position, s.Velocity
	half := dt * 0.5

	k1p := v0
	k1v := accel(t, p0, v0)

	k2p := v0.Add(k1v.Mul(half))
	k2v := accel(t+half, p0.Add(k1p.Mul(half)), k2p)

	k3p := v0.Add(k2v.Mul(half))
	k3v := accel(t+half, p0.Add(k2p.Mul(half)), k3p)

	k4p := v0.Add(k3v.Mul(dt))
	k4v := accel(t+dt, p0.Add(k3p.Mul(dt)), k4p)

	dt6 := dt / 6.0
	s.Position = p0.Add(weighted(k1p, k2p, k3p, k4p).Mul(dt6))
	s.Velocity = v0.Add(weighted(k1v, k2v, k3v, k4v).Mul(dt6))
}

func weighted(k1, k2, k3, k4 mgl64.Vec3) mgl64.Vec3 {
	return k1.Add(k2.Mul(2)).Add(k3.Mul(2)).Add(k4)
}
