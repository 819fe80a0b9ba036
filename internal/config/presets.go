package config

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/dynamo"
)

type Preset struct {
	Description string
	Environment dynamo.EnvironmentState
	Gusts       bool
}

func env(wind mgl64.Vec3, density, temperature float64) dynamo.EnvironmentState {
	return dynamo.EnvironmentState{
		Gravity:     dynamo.StandardGravity,
		Wind:        wind,
		AirDensity:  density,
		Temperature: temperature,
	}
}

var Presets = map[string]Preset{
	"calm": {
		Description: "still sea-level air",
		Environment: dynamo.DefaultEnvironment(),
	},
	"breezy": {
		Description: "light crosswind",
		Environment: env(mgl64.Vec3{4, 0, 1}, dynamo.SeaLevelDensity, dynamo.StandardTemperature),
		Gusts:       true,
	},
	"gusty": {
		Description: "moderate wind with periodic gusts",
		Environment: env(mgl64.Vec3{8, 0, -2}, dynamo.SeaLevelDensity, dynamo.StandardTemperature),
		Gusts:       true,
	},
	"storm": {
		Description: "strong cold wind",
		Environment: env(mgl64.Vec3{18, 0, 6}, 1.25, 283.15),
		Gusts:       true,
	},
	"highland": {
		Description: "thin cold air at 2500 m",
		Environment: env(mgl64.Vec3{2, 0, 0}, 0.96, 272.0),
	},
	"vacuum": {
		Description: "no air, no drag, no lift",
		Environment: env(mgl64.Vec3{}, 0, dynamo.StandardTemperature),
	},
}

// GetPreset returns the default config with the named environment applied,
// or nil when the preset does not exist.
func GetPreset(name string) *Config {
	cfg := DefaultConfig()
	if err := cfg.ApplyPreset(name); err != nil {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
