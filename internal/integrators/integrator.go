package integrators

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/dynamo"
)

// AccelFunc returns the total acceleration at time t for a body at pos moving
// with vel. Implementations must not retain or mutate their inputs.
type AccelFunc func(t float64, pos, vel mgl64.Vec3) mgl64.Vec3

// Integrator advances the translational state of s by dt. Only Position and
// Velocity are written; spin and rotation are integrated separately.
type Integrator interface {
	Name() string
	Step(s *dynamo.ProjectileState, t, dt float64, accel AccelFunc)
}

var registry = map[string]func() Integrator{
	"rk4":    func() Integrator { return NewRK4() },
	"euler":  func() Integrator { return NewEuler() },
	"verlet": func() Integrator { return NewVerlet() },
}

// New returns a fresh integrator by name.
func New(name string) (Integrator, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator %q", name)
	}
	return ctor(), nil
}

// Names lists the registered integrators in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
