package contact

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/dynamo"
)

// Ground reports terrain height and unit surface normal at (x, z). Both must
// be pure functions of position.
type Ground interface {
	Height(x, z float64) float64
	Normal(x, z float64) mgl64.Vec3
}

// FlatGround is the plane y = 0.
type FlatGround struct{}

func (FlatGround) Height(x, z float64) float64    { return 0 }
func (FlatGround) Normal(x, z float64) mgl64.Vec3 { return dynamo.Up }

const (
	DefaultBumpAmplitude = 0.02
	DefaultBumpFrequency = 1.3
)

// BumpyGround is h = A·sin(kx)·cos(kz), a low smooth undulation that tilts
// the contact normal deterministically with position.
type BumpyGround struct {
	Amplitude float64
	Frequency float64
}

func NewBumpyGround() BumpyGround {
	return BumpyGround{Amplitude: DefaultBumpAmplitude, Frequency: DefaultBumpFrequency}
}

func (g BumpyGround) Height(x, z float64) float64 {
	k := g.Frequency
	return g.Amplitude * math.Sin(k*x) * math.Cos(k*z)
}

func (g BumpyGround) Normal(x, z float64) mgl64.Vec3 {
	k := g.Frequency
	dx := g.Amplitude * k * math.Cos(k*x) * math.Cos(k*z)
	dz := -g.Amplitude * k * math.Sin(k*x) * math.Sin(k*z)
	return mgl64.Vec3{-dx, 1, -dz}.Normalize()
}
