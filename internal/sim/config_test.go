package sim

import (
	"errors"
	"testing"

	"github.com/san-kum/trajsim/internal/dynamo"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero step", func(c *Config) { c.Step = 0 }},
		{"step below min", func(c *Config) { c.Step = c.MinStep / 2 }},
		{"step above max", func(c *Config) { c.Step = c.MaxStep * 2 }},
		{"negative time scale", func(c *Config) { c.TimeScale = -1 }},
		{"zero frame delta", func(c *Config) { c.MaxFrameDelta = 0 }},
		{"zero telemetry interval", func(c *Config) { c.TelemetryInterval = 0 }},
		{"zero rest speed", func(c *Config) { c.Thresholds.RestSpeed = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSubdivisions(t *testing.T) {
	e, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	in := &instance{state: &dynamo.ProjectileState{Radius: 0.1}}
	step := e.cfg.Step

	tests := []struct {
		name string
		y    float64
		vx   float64
		want int
	}{
		{"high and slow", 10, 5, 1},
		{"near ground", 0.5, 5, 2},
		{"fast", 10, 50, 2},
		{"fast near ground", 0.5, 50, 4},
	}
	for _, tt := range tests {
		in.state.Position[1] = tt.y
		in.state.Velocity[0] = tt.vx
		if got := e.subdivisions(in, step); got != tt.want {
			t.Errorf("%s: subdivisions = %d, want %d", tt.name, got, tt.want)
		}
	}

	e.cfg.MinStep = step / 2
	in.state.Position[1], in.state.Velocity[0] = 0.5, 50
	if got := e.subdivisions(in, step); got != 2 {
		t.Errorf("min step not honored: %d", got)
	}
}
