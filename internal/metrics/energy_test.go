package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/dynamo"
)

func ball() *dynamo.ProjectileState {
	return &dynamo.ProjectileState{
		Position:        mgl64.Vec3{0, 2.1, 0},
		Velocity:        mgl64.Vec3{3, 4, 0},
		Spin:            mgl64.Vec3{0, 0, 2},
		Rotation:        mgl64.QuatIdent(),
		Mass:            2,
		Radius:          0.1,
		MomentOfInertia: mgl64.Vec3{0.5, 0.5, 0.5},
	}
}

func TestMechanical(t *testing.T) {
	s := ball()
	env := dynamo.DefaultEnvironment()
	want := 0.5*2*25 + 0.5*0.5*4 + 2*9.81*2.0
	if got := Mechanical(s, env); math.Abs(got-want) > 1e-9 {
		t.Errorf("Mechanical = %v, want %v", got, want)
	}
}

func TestEnergyLossAndImpacts(t *testing.T) {
	m := NewEnergy()
	env := dynamo.DefaultEnvironment()
	s := ball()

	m.OnStep(1, dynamo.Airborne, s, env, 0)
	if m.Value(1) != 0 {
		t.Errorf("initial loss = %v", m.Value(1))
	}

	s.Position[1] = s.Radius
	s.Velocity = mgl64.Vec3{2, 3, 0}
	m.OnStep(1, dynamo.Colliding, s, env, 0.5)
	s.Velocity = mgl64.Vec3{1, 1, 0}
	m.OnStep(1, dynamo.Colliding, s, env, 1.1)

	if got := len(m.Impacts(1)); got != 2 {
		t.Fatalf("impacts = %d, want 2", got)
	}
	if !m.Dissipative(1) {
		t.Error("decreasing impact energies reported as non-dissipative")
	}
	if v := m.Value(1); v <= 0 || v >= 1 {
		t.Errorf("loss fraction = %v", v)
	}

	s.Velocity = mgl64.Vec3{5, 5, 0}
	m.OnStep(1, dynamo.Colliding, s, env, 1.5)
	if m.Dissipative(1) {
		t.Error("energy gain at impact not detected")
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy()
	s := ball()
	m.OnStep(3, dynamo.Airborne, s, dynamo.DefaultEnvironment(), 0)
	s.Velocity = mgl64.Vec3{}
	m.OnStep(3, dynamo.Airborne, s, dynamo.DefaultEnvironment(), 0.1)
	if m.Value(3) == 0 {
		t.Error("expected non-zero loss")
	}

	m.Reset()
	if m.Value(3) != 0 || m.Impacts(3) != nil {
		t.Error("expected empty metric after reset")
	}
}

func TestContactTime(t *testing.T) {
	c := NewContactTime()
	s := ball()
	env := dynamo.DefaultEnvironment()
	c.OnStep(0, dynamo.Airborne, s, env, 0.5)
	c.OnStep(0, dynamo.Colliding, s, env, 0.6)
	c.OnStep(0, dynamo.Grounded, s, env, 0.8)
	c.OnStep(0, dynamo.Airborne, s, env, 1.0)
	if got := c.Value(0); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("contact time = %v, want 0.3", got)
	}
}

func TestStability(t *testing.T) {
	st := NewStability(1e-6)
	s := ball()
	env := dynamo.DefaultEnvironment()
	st.OnStep(0, dynamo.Airborne, s, env, 0)
	if st.Value(0) != 1 {
		t.Errorf("stability = %v", st.Value(0))
	}
	s.Rotation = mgl64.Quat{W: 2}
	st.OnStep(0, dynamo.Airborne, s, env, 0.1)
	if st.Value(0) != 0.5 {
		t.Errorf("stability = %v, want 0.5", st.Value(0))
	}
	s.Rotation = mgl64.QuatIdent()
	s.Velocity[0] = math.NaN()
	st.OnStep(0, dynamo.Airborne, s, env, 0.2)
	if math.Abs(st.Value(0)-1.0/3) > 1e-12 {
		t.Errorf("stability = %v, want 1/3", st.Value(0))
	}

	if len(All()) != 3 {
		t.Error("All() should return the three standard metrics")
	}
}
