package catalog

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/dynamo"
)

// ProjectileDefinition is the immutable description of a projectile type.
type ProjectileDefinition struct {
	ID              string
	Name            string
	Color           string
	Mass            float64
	Area            float64
	DragCoefficient float64
	SpinDamping     float64
	Restitution     float64
	Radius          float64
	MomentOfInertia mgl64.Vec3
}

// SolidSphereInertia is 2/5·m·r² about every axis.
func SolidSphereInertia(mass, radius float64) mgl64.Vec3 {
	i := 0.4 * mass * radius * radius
	return mgl64.Vec3{i, i, i}
}

// ShellInertia is 2/3·m·r² about every axis (thin spherical shell).
func ShellInertia(mass, radius float64) mgl64.Vec3 {
	i := 2.0 / 3.0 * mass * radius * radius
	return mgl64.Vec3{i, i, i}
}

// CylinderInertia is a solid cylinder of given length along X.
func CylinderInertia(mass, radius, length float64) mgl64.Vec3 {
	axial := 0.5 * mass * radius * radius
	transverse := mass * (3*radius*radius + length*length) / 12
	return mgl64.Vec3{axial, transverse, transverse}
}

func circleArea(radius float64) float64 {
	return math.Pi * radius * radius
}

// Validate rejects definitions that would produce non-finite accelerations.
func (d ProjectileDefinition) Validate() error {
	fail := func(field string, v float64) error {
		return &dynamo.DefinitionError{ID: d.ID, Field: field, Value: v, Wrapped: dynamo.ErrInvalidDefinition}
	}
	positive := []struct {
		field string
		v     float64
	}{
		{"mass", d.Mass},
		{"area", d.Area},
		{"radius", d.Radius},
		{"inertia.x", d.MomentOfInertia[0]},
		{"inertia.y", d.MomentOfInertia[1]},
		{"inertia.z", d.MomentOfInertia[2]},
	}
	for _, p := range positive {
		if !(p.v > 0) || math.IsInf(p.v, 0) {
			return fail(p.field, p.v)
		}
	}
	if !(d.DragCoefficient >= 0) {
		return fail("drag_coefficient", d.DragCoefficient)
	}
	if !(d.SpinDamping >= 0) {
		return fail("spin_damping", d.SpinDamping)
	}
	if !(d.Restitution >= 0 && d.Restitution <= 1) {
		return fail("restitution", d.Restitution)
	}
	return nil
}

// NewState returns a resting projectile of this type centered at pos.
func (d ProjectileDefinition) NewState(pos mgl64.Vec3) *dynamo.ProjectileState {
	return &dynamo.ProjectileState{
		Position:        pos,
		Rotation:        mgl64.QuatIdent(),
		Mass:            d.Mass,
		Area:            d.Area,
		DragCoefficient: d.DragCoefficient,
		SpinDamping:     d.SpinDamping,
		Restitution:     d.Restitution,
		MomentOfInertia: d.MomentOfInertia,
		Radius:          d.Radius,
	}
}

func sphere(id, name, color string, mass, radius, cd, damping, e float64, inertia func(m, r float64) mgl64.Vec3) ProjectileDefinition {
	return ProjectileDefinition{
		ID: id, Name: name, Color: color,
		Mass: mass, Area: circleArea(radius), Radius: radius,
		DragCoefficient: cd, SpinDamping: damping, Restitution: e,
		MomentOfInertia: inertia(mass, radius),
	}
}

// DefaultProjectiles is the built-in projectile catalog.
func DefaultProjectiles() []ProjectileDefinition {
	return []ProjectileDefinition{
		sphere("soccer", "Soccer ball", "#f5f5f5", 0.43, 0.11, 0.25, 0.05, 0.8, ShellInertia),
		sphere("baseball", "Baseball", "#e8e2d0", 0.145, 0.0366, 0.35, 0.03, 0.55, SolidSphereInertia),
		sphere("tennis", "Tennis ball", "#d7f03c", 0.058, 0.0335, 0.55, 0.08, 0.75, ShellInertia),
		sphere("cannonball", "Cannonball", "#3a3a3a", 4.0, 0.05, 0.47, 0.01, 0.2, SolidSphereInertia),
		sphere("beachball", "Beach ball", "#ff6f3c", 0.1, 0.25, 0.47, 0.2, 0.85, ShellInertia),
		{
			ID: "slug", Name: "Slug", Color: "#b08d57",
			Mass: 0.5, Radius: 0.04, Area: circleArea(0.04),
			DragCoefficient: 0.3, SpinDamping: 0.02, Restitution: 0.3,
			MomentOfInertia: CylinderInertia(0.5, 0.04, 0.1),
		},
	}
}
