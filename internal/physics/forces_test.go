package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/dynamo"
)

func testBall() *dynamo.ProjectileState {
	r := 0.11
	m := 0.43
	i := 2.0 / 3.0 * m * r * r
	return &dynamo.ProjectileState{
		Position:        mgl64.Vec3{0, 10, 0},
		Velocity:        mgl64.Vec3{20, 5, 0},
		Rotation:        mgl64.QuatIdent(),
		Mass:            m,
		Area:            math.Pi * r * r,
		DragCoefficient: 0.25,
		SpinDamping:     0.05,
		Restitution:     0.7,
		MomentOfInertia: mgl64.Vec3{i, i, i},
		Radius:          r,
	}
}

func TestGravity(t *testing.T) {
	env := dynamo.DefaultEnvironment()
	if g := Gravity(env); g != (mgl64.Vec3{0, -9.81, 0}) {
		t.Errorf("Gravity = %v", g)
	}
}

func TestDragOpposesRelativeVelocity(t *testing.T) {
	s := testBall()
	env := dynamo.DefaultEnvironment()
	wind := mgl64.Vec3{-3, 0, 1}

	a := Drag(s, env, wind)
	rel := s.Velocity.Sub(wind)
	if a.Dot(rel) >= 0 {
		t.Errorf("drag %v does not oppose relative velocity %v", a, rel)
	}
	if a.Cross(rel).Len() > 1e-9 {
		t.Errorf("drag %v not parallel to relative velocity %v", a, rel)
	}
}

func TestDragZeroGuards(t *testing.T) {
	env := dynamo.DefaultEnvironment()

	s := testBall()
	s.Velocity = mgl64.Vec3{2, 0, 1}
	if a := Drag(s, env, s.Velocity); a.Len() != 0 {
		t.Errorf("drag at zero relative velocity = %v", a)
	}

	s = testBall()
	env.AirDensity = 0
	if a := Drag(s, env, mgl64.Vec3{}); a.Len() != 0 {
		t.Errorf("drag in vacuum = %v", a)
	}

	s = testBall()
	s.DragCoefficient = 0
	if a := Drag(s, dynamo.DefaultEnvironment(), mgl64.Vec3{}); a.Len() != 0 {
		t.Errorf("drag on drag-free body = %v", a)
	}
}

func TestDragDecreasesWithAltitude(t *testing.T) {
	env := dynamo.DefaultEnvironment()
	low, high := testBall(), testBall()
	high.Position = mgl64.Vec3{0, 3000, 0}
	if Drag(high, env, mgl64.Vec3{}).Len() >= Drag(low, env, mgl64.Vec3{}).Len() {
		t.Error("thinner air at altitude should reduce drag")
	}
}

func TestMagnusZeroAtZeroRelativeVelocity(t *testing.T) {
	s := testBall()
	s.Spin = mgl64.Vec3{0, 0, 40}
	s.Velocity = mgl64.Vec3{}
	a := Magnus(s, dynamo.DefaultEnvironment(), mgl64.Vec3{})
	if a.Len() != 0 {
		t.Errorf("Magnus with zero relative velocity = %v", a)
	}
	for _, c := range a {
		if math.IsNaN(c) {
			t.Fatal("Magnus produced NaN")
		}
	}
}

func TestMagnusZeroWithoutSpin(t *testing.T) {
	s := testBall()
	if a := Magnus(s, dynamo.DefaultEnvironment(), mgl64.Vec3{}); a.Len() != 0 {
		t.Errorf("Magnus without spin = %v", a)
	}
}

func TestMagnusDirection(t *testing.T) {
	s := testBall()
	s.Velocity = mgl64.Vec3{20, 0, 0}
	// Spin about +Z with flight along +X lifts the ball.
	s.Spin = mgl64.Vec3{0, 0, 30}
	a := Magnus(s, dynamo.DefaultEnvironment(), mgl64.Vec3{})
	if a.Y() <= 0 {
		t.Errorf("expected upward lift, got %v", a)
	}
	if math.Abs(a.Dot(s.Velocity)) > 1e-9 {
		t.Errorf("Magnus %v should be perpendicular to velocity", a)
	}
}

// Every translational term is an acceleration: doubling mass halves the
// aerodynamic terms and leaves gravity alone.
func TestForceModelReturnsAccelerations(t *testing.T) {
	env := dynamo.DefaultEnvironment()
	wind := mgl64.Vec3{1, 0, 0}

	light := testBall()
	light.Spin = mgl64.Vec3{0, 5, 20}
	heavy := light.Clone()
	heavy.Mass *= 2

	checkHalved := func(name string, a, b mgl64.Vec3) {
		if a.Len() == 0 {
			t.Fatalf("%s: zero reference acceleration", name)
		}
		if math.Abs(b.Len()-a.Len()/2) > 1e-12 {
			t.Errorf("%s: heavy = %v, want half of %v", name, b.Len(), a.Len())
		}
	}

	checkHalved("drag", Drag(light, env, wind), Drag(heavy, env, wind))
	checkHalved("magnus", Magnus(light, env, wind), Magnus(heavy, env, wind))

	if Gravity(env) != Gravity(env) {
		t.Error("gravity must not depend on mass")
	}

	total := Acceleration(light, env, wind, mgl64.Vec3{})
	sum := Gravity(env).Add(Drag(light, env, wind)).Add(Magnus(light, env, wind))
	if total.Sub(sum).Len() > 1e-12 {
		t.Errorf("Acceleration = %v, want %v", total, sum)
	}
}

func TestApplyImpulse(t *testing.T) {
	s := testBall()
	s.Velocity = mgl64.Vec3{}
	j := mgl64.Vec3{4.3, 0, 0}
	r := mgl64.Vec3{0, -s.Radius, 0}

	ApplyImpulse(s, j, r)

	if math.Abs(s.Velocity.X()-10) > 1e-9 {
		t.Errorf("Δv = %v, want 10", s.Velocity.X())
	}
	wantSpin := s.InverseInertia(r.Cross(j))
	if s.Spin.Sub(wantSpin).Len() > 1e-9 {
		t.Errorf("Δω = %v, want %v", s.Spin, wantSpin)
	}
	if s.Spin.Z() <= 0 {
		t.Errorf("striking below center along +X should spin about +Z, got %v", s.Spin)
	}
}
