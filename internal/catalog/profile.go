package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/dynamo"
)

// CurveKind is the shape of a force profile over its duration.
type CurveKind int

const (
	Constant CurveKind = iota
	Ramp
	Pulse
	Sine
)

var curveNames = []string{"constant", "ramp", "pulse", "sine"}

func (k CurveKind) String() string {
	if int(k) >= 0 && int(k) < len(curveNames) {
		return curveNames[k]
	}
	return fmt.Sprintf("curve(%d)", int(k))
}

func ParseCurve(name string) (CurveKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range curveNames {
		if n == name {
			return CurveKind(i), nil
		}
	}
	return Constant, fmt.Errorf("unknown curve %q", name)
}

// Shape returns the normalized curve value in [0, 1] at t for a profile of
// the given duration. It is zero outside [0, duration].
func (k CurveKind) Shape(t, duration float64) float64 {
	if duration <= 0 || t < 0 || t > duration {
		return 0
	}
	u := t / duration
	switch k {
	case Constant:
		return 1
	case Ramp:
		return u
	case Pulse:
		s := math.Sin(math.Pi * u)
		return s * s
	case Sine:
		return math.Sin(math.Pi * u)
	}
	return 0
}

// Mean is the average of Shape over the duration.
func (k CurveKind) Mean() float64 {
	switch k {
	case Constant:
		return 1
	case Ramp, Pulse:
		return 0.5
	case Sine:
		return 2 / math.Pi
	}
	return 0
}

// ForceProfile describes how a projectile is launched.
type ForceProfile struct {
	ID        string
	Name      string
	Icon      string
	Duration  float64
	Curve     CurveKind
	PeakForce float64
	// Elevation above the horizon and heading about +Y from +X, radians.
	Elevation float64
	Heading   float64
	SpinAxis  mgl64.Vec3
	SpinRate  float64
	// LaunchPosition overrides the default launch point when set.
	LaunchPosition *mgl64.Vec3
}

// Direction is the unit launch direction.
func (p ForceProfile) Direction() mgl64.Vec3 {
	ce := math.Cos(p.Elevation)
	return mgl64.Vec3{ce * math.Cos(p.Heading), math.Sin(p.Elevation), ce * math.Sin(p.Heading)}
}

// Force returns the launch force in newtons at time t since launch.
func (p ForceProfile) Force(t float64) mgl64.Vec3 {
	return p.Direction().Mul(p.PeakForce * p.Curve.Shape(t, p.Duration))
}

// Active reports whether t lies inside the force window.
func (p ForceProfile) Active(t float64) bool {
	return t >= 0 && t < p.Duration
}

// Impulse is the total impulse magnitude delivered over the window in N·s.
func (p ForceProfile) Impulse() float64 {
	return p.PeakForce * p.Duration * p.Curve.Mean()
}

// Spin is the angular velocity imposed while the profile is active.
func (p ForceProfile) Spin() mgl64.Vec3 {
	if p.SpinRate == 0 || p.SpinAxis.Len() == 0 {
		return mgl64.Vec3{}
	}
	return p.SpinAxis.Normalize().Mul(p.SpinRate)
}

func (p ForceProfile) Validate() error {
	check := func(field string, v float64, ok bool) error {
		if ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return nil
		}
		return &dynamo.DefinitionError{ID: p.ID, Field: field, Value: v, Wrapped: dynamo.ErrInvalidProfile}
	}
	if p.ID == "" {
		return fmt.Errorf("%w: empty id", dynamo.ErrInvalidProfile)
	}
	if err := check("duration", p.Duration, p.Duration > 0); err != nil {
		return err
	}
	if err := check("peak_force", p.PeakForce, p.PeakForce >= 0); err != nil {
		return err
	}
	if err := check("elevation", p.Elevation, math.Abs(p.Elevation) <= math.Pi/2); err != nil {
		return err
	}
	if p.SpinRate != 0 {
		if err := check("spin_axis", p.SpinAxis.Len(), p.SpinAxis.Len() > 0); err != nil {
			return err
		}
	}
	if int(p.Curve) < 0 || int(p.Curve) >= len(curveNames) {
		return check("curve", float64(p.Curve), false)
	}
	return nil
}

func deg(d float64) float64 { return d * math.Pi / 180 }

// DefaultProfiles is the built-in launch catalog.
func DefaultProfiles() []ForceProfile {
	rail := mgl64.Vec3{0, 1.5, 0}
	return []ForceProfile{
		{
			ID: "cannon", Name: "Cannon", Icon: "cannon",
			Duration: 0.03, Curve: Constant, PeakForce: 2500,
			Elevation: deg(35),
		},
		{
			ID: "kick", Name: "Kick", Icon: "boot",
			Duration: 0.08, Curve: Pulse, PeakForce: 260,
			Elevation: deg(25),
			SpinAxis:  mgl64.Vec3{0, 1, 0.3}, SpinRate: 8,
		},
		{
			ID: "bat", Name: "Bat", Icon: "bat",
			Duration: 0.012, Curve: Pulse, PeakForce: 900,
			Elevation: deg(20),
			SpinAxis:  mgl64.Vec3{0, 0, 1}, SpinRate: 150,
		},
		{
			ID: "throw", Name: "Throw", Icon: "hand",
			Duration: 0.25, Curve: Ramp, PeakForce: 12,
			Elevation: deg(40),
			SpinAxis:  mgl64.Vec3{0, 0, 1}, SpinRate: 10,
		},
		{
			ID: "rail", Name: "Rail", Icon: "rail",
			Duration: 0.5, Curve: Sine, PeakForce: 400,
			Elevation:      deg(10),
			LaunchPosition: &rail,
		},
	}
}
