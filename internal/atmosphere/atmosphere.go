// Package atmosphere holds the stateless air model: density against altitude,
// viscosity against temperature, and the Reynolds- and spin-ratio-dependent
// aerodynamic coefficients.
package atmosphere

import "math"

const (
	// ScaleHeight is the exponential density scale height in meters.
	ScaleHeight = 8500.0

	// Sutherland's law reference values for air.
	SutherlandMu0 = 1.827e-5
	SutherlandT0  = 291.15
	SutherlandC   = 120.0

	// Drag regime boundaries in Reynolds number.
	StokesLimit     = 1.0
	TransitionLimit = 1000.0
	CrisisStart     = 300000.0
	CrisisEnd       = 500000.0

	// SupercriticalFactor is the fraction of the baseline Cd left after the drag crisis.
	SupercriticalFactor = 0.4

	// MaxLiftCoefficient is the Magnus lift plateau.
	MaxLiftCoefficient = 0.5
)

// AirDensityAtAltitude returns ρ(h) = ρ0·e^(−h/H). Callers clamp altitude to ≥ 0.
func AirDensityAtAltitude(altitude, seaLevelDensity float64) float64 {
	return seaLevelDensity * math.Exp(-altitude/ScaleHeight)
}

// AirViscosity returns the dynamic viscosity of air in Pa·s at temperature T (K).
func AirViscosity(temperature float64) float64 {
	return SutherlandMu0 * math.Pow(temperature/SutherlandT0, 1.5) *
		(SutherlandT0 + SutherlandC) / (temperature + SutherlandC)
}

// ReynoldsNumber returns ρvd/μ.
func ReynoldsNumber(speed, diameter, density, viscosity float64) float64 {
	if viscosity <= 0 {
		return 0
	}
	return density * speed * diameter / viscosity
}

// DragCoefficient maps a Reynolds number to a drag coefficient for a body
// whose subcritical coefficient is baseCd.
//
// The closed-form branches do not meet at Re=1 or at Re=1000, so Stokes flow
// is blended into the transition curve over Re 0.5..1 and the transition
// curve into baseCd over Re 100..1000. A non-positive Re (no flow) returns
// baseCd instead of the Stokes singularity.
func DragCoefficient(re, baseCd float64) float64 {
	switch {
	case re <= 0:
		return baseCd
	case re < StokesLimit:
		cd := 24 / re
		if re > stokesBlendStart {
			w := (re - stokesBlendStart) / (StokesLimit - stokesBlendStart)
			return cd + (transitionCd(re)-cd)*w
		}
		return cd
	case re < TransitionLimit:
		cd := transitionCd(re)
		if re > transitionBlendStart {
			w := (re - transitionBlendStart) / (TransitionLimit - transitionBlendStart)
			return cd + (baseCd-cd)*w
		}
		return cd
	case re < CrisisStart:
		return baseCd
	case re < CrisisEnd:
		w := (re - CrisisStart) / (CrisisEnd - CrisisStart)
		return baseCd + (SupercriticalFactor*baseCd-baseCd)*w
	default:
		return SupercriticalFactor * baseCd
	}
}

const (
	stokesBlendStart     = 0.5
	transitionBlendStart = 100.0
)

func transitionCd(re float64) float64 {
	return 24 / re * (1 + 0.15*math.Pow(re, 0.687))
}

// MagnusLiftCoefficient maps spin ratio S = rω/v to a lift coefficient:
// a linear ramp to the plateau by S=0.1, flat to S=0.5, then exponential decay.
func MagnusLiftCoefficient(spinRatio float64) float64 {
	s := math.Abs(spinRatio)
	switch {
	case s < 0.1:
		return MaxLiftCoefficient * s / 0.1
	case s < 0.5:
		return MaxLiftCoefficient
	default:
		return MaxLiftCoefficient * math.Exp(-(s-0.5)/0.3)
	}
}
