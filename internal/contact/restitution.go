package contact

import (
	"fmt"
	"math"
	"strings"
)

// RestitutionPolicy selects how the coefficient of restitution reacts to
// impact speed.
type RestitutionPolicy int

const (
	// Static uses the base coefficient for every impact.
	Static RestitutionPolicy = iota
	// VelocityDependent scales the base by exp(-|vn|/RestitutionFalloff), so
	// hard impacts lose proportionally more energy.
	VelocityDependent
)

// RestitutionFalloff is the impact speed (m/s) at which VelocityDependent
// restitution drops to 1/e of its base.
const RestitutionFalloff = 20.0

// Effective returns the restitution for an impact with normal speed vn.
// The result is clamped to [0, 1].
func (p RestitutionPolicy) Effective(base, vn float64) float64 {
	e := base
	if p == VelocityDependent {
		e *= math.Exp(-math.Abs(vn) / RestitutionFalloff)
	}
	return math.Max(0, math.Min(1, e))
}

func (p RestitutionPolicy) String() string {
	switch p {
	case Static:
		return "static"
	case VelocityDependent:
		return "velocity"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

func ParseRestitutionPolicy(name string) (RestitutionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "static":
		return Static, nil
	case "velocity", "velocity-dependent":
		return VelocityDependent, nil
	}
	return Static, fmt.Errorf("unknown restitution policy %q", name)
}

func (p RestitutionPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *RestitutionPolicy) UnmarshalText(b []byte) error {
	v, err := ParseRestitutionPolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
