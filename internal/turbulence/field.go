// Package turbulence produces a deterministic, spatially and temporally
// varying wind perturbation on top of a base wind, plus periodic gusts.
//
// A [Field] is owned by one engine. Two fields built from the same seed
// return identical values for identical call sequences.
package turbulence

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Intensity is the turbulent fraction of the base wind speed.
	Intensity = 0.15
	// VerticalScale attenuates the vertical turbulence component.
	VerticalScale = 0.5
	// GroundFadeHeight is the altitude over which wind ramps up from zero.
	GroundFadeHeight = 10.0
	// TimeRate slows the apparent evolution of the field.
	TimeRate = 0.5

	// GustPeriod is the time between gust peaks in seconds.
	GustPeriod = 20.0
	// GustWidth is the standard deviation of the gust envelope in seconds.
	GustWidth = 1.5
	// GustStrength is the peak gust speed in m/s.
	GustStrength = 5.0

	spatialFrequency  = 0.08
	temporalFrequency = 0.35
	octaves           = 3
)

// Field is a three-axis turbulence generator.
type Field struct {
	seed int64
	axes [3]*valueNoise
	time float64
}

// New builds a field whose axes are seeded from seed, seed+1 and seed+2.
func New(seed int64) *Field {
	f := &Field{seed: seed}
	for i := range f.axes {
		f.axes[i] = newValueNoise(seed + int64(i))
	}
	return f
}

func (f *Field) Seed() int64 { return f.seed }

// Time is the internal field clock, which runs at half real time.
func (f *Field) Time() float64 { return f.time }

// Update advances the field clock.
func (f *Field) Update(dt float64) {
	f.time += dt * TimeRate
}

// GroundFade is 0 at ground level and rises linearly to 1 at GroundFadeHeight.
func GroundFade(altitude float64) float64 {
	return math.Max(0, math.Min(1, altitude/GroundFadeHeight))
}

// Turbulence returns the local wind at pos: the ground-faded base wind plus a
// fractal perturbation scaled by the base wind speed.
func (f *Field) Turbulence(pos, baseWind mgl64.Vec3) mgl64.Vec3 {
	fade := GroundFade(pos.Y())
	speed := baseWind.Len()
	if speed == 0 || fade == 0 {
		return baseWind.Mul(fade)
	}

	x, y, z := pos.X()*spatialFrequency, pos.Y()*spatialFrequency, pos.Z()*spatialFrequency
	t := f.time * temporalFrequency
	scale := speed * Intensity

	perturb := mgl64.Vec3{
		f.axes[0].fractal(x, y, z, t) * scale,
		f.axes[1].fractal(x, y, z, t) * scale * VerticalScale,
		f.axes[2].fractal(x, y, z, t) * scale,
	}
	// The perturbation fades with the base wind so grounded balls see still air.
	return baseWind.Add(perturb).Mul(fade)
}

// Gust returns a gust velocity at pos and time t. The envelope is Gaussian in
// time and peaks once per GustPeriod; its heading drifts with position and time.
func (f *Field) Gust(pos mgl64.Vec3, t float64) mgl64.Vec3 {
	phase := math.Mod(t, GustPeriod)
	if phase < 0 {
		phase += GustPeriod
	}
	d := phase - GustPeriod/2
	envelope := math.Exp(-d * d / (2 * GustWidth * GustWidth))

	heading := 0.05*pos.X() + 0.05*pos.Z() + 0.2*t
	dir := mgl64.Vec3{math.Cos(heading), 0.15 * math.Sin(0.5*heading), math.Sin(heading)}.Normalize()
	return dir.Mul(GustStrength * envelope)
}
