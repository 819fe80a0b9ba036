package contact

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/dynamo"
)

const (
	// WallBounce is the fraction of impact-axis velocity reflected by a box.
	WallBounce = 0.5
	// WallAttenuation scales the velocity along the other two axes.
	WallAttenuation = 0.8
)

// Box is a static axis-aligned obstacle.
type Box struct {
	Min mgl64.Vec3 `yaml:"min" json:"min"`
	Max mgl64.Vec3 `yaml:"max" json:"max"`
}

// NewBox builds a box from its center and full size.
func NewBox(center, size mgl64.Vec3) Box {
	h := size.Mul(0.5)
	return Box{Min: center.Sub(h), Max: center.Add(h)}
}

func (b Box) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Collide pushes a sphere overlapping the box out along the primary axis of
// impact, reflects part of the velocity on that axis and attenuates the rest.
// It reports whether there was overlap.
func (b Box) Collide(s *dynamo.ProjectileState) bool {
	p := s.Position
	var closest mgl64.Vec3
	for i := 0; i < 3; i++ {
		closest[i] = math.Max(b.Min[i], math.Min(p[i], b.Max[i]))
	}
	d := p.Sub(closest)
	if d.LenSqr() >= s.Radius*s.Radius {
		return false
	}

	axis, sign := 0, 1.0
	if d.LenSqr() > 0 {
		for i := 1; i < 3; i++ {
			if math.Abs(d[i]) > math.Abs(d[axis]) {
				axis = i
			}
		}
		if d[axis] < 0 {
			sign = -1
		}
	} else {
		// Center inside: leave through the nearest face.
		best := math.Inf(1)
		for i := 0; i < 3; i++ {
			if lo := p[i] - b.Min[i]; lo < best {
				best, axis, sign = lo, i, -1
			}
			if hi := b.Max[i] - p[i]; hi < best {
				best, axis, sign = hi, i, 1
			}
		}
	}

	if sign > 0 {
		s.Position[axis] = b.Max[axis] + s.Radius
	} else {
		s.Position[axis] = b.Min[axis] - s.Radius
	}

	v := s.Velocity
	for i := 0; i < 3; i++ {
		if i == axis {
			if v[i]*sign < 0 {
				v[i] = -v[i] * WallBounce
			}
			continue
		}
		v[i] *= WallAttenuation
	}
	s.Velocity = v
	return true
}
