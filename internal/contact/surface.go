package contact

import (
	"fmt"
	"strings"
)

// Surface is the ground material shared by every projectile in an engine.
type Surface struct {
	Friction          float64 `yaml:"friction" json:"friction"`
	Restitution       float64 `yaml:"restitution" json:"restitution"`
	RollingResistance float64 `yaml:"rolling_resistance" json:"rolling_resistance"`
}

type SurfaceType int

const (
	Grass SurfaceType = iota
	Concrete
	Dirt
	Ice
)

var surfaces = map[SurfaceType]Surface{
	Grass:    {Friction: 0.55, Restitution: 0.75, RollingResistance: 0.12},
	Concrete: {Friction: 0.65, Restitution: 1.0, RollingResistance: 0.04},
	Dirt:     {Friction: 0.7, Restitution: 0.6, RollingResistance: 0.2},
	Ice:      {Friction: 0.05, Restitution: 0.9, RollingResistance: 0.01},
}

var surfaceNames = map[SurfaceType]string{
	Grass:    "grass",
	Concrete: "concrete",
	Dirt:     "dirt",
	Ice:      "ice",
}

// Surface returns the material constants for t. Unknown types fall back to
// grass.
func (t SurfaceType) Surface() Surface {
	if s, ok := surfaces[t]; ok {
		return s
	}
	return surfaces[Grass]
}

func (t SurfaceType) String() string {
	if n, ok := surfaceNames[t]; ok {
		return n
	}
	return fmt.Sprintf("surface(%d)", int(t))
}

// ParseSurface maps a case-insensitive name to its SurfaceType.
func ParseSurface(name string) (SurfaceType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range surfaceNames {
		if n == name {
			return t, nil
		}
	}
	return Grass, fmt.Errorf("unknown surface %q", name)
}

// SurfaceNames lists the surfaces in enum order.
func SurfaceNames() []string {
	return []string{"grass", "concrete", "dirt", "ice"}
}

func (t SurfaceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *SurfaceType) UnmarshalText(b []byte) error {
	v, err := ParseSurface(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
