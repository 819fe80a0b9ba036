package sim

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/san-kum/trajsim/internal/contact"
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/integrators"
)

// Config holds the engine's timing and contact parameters.
type Config struct {
	Step          float64 `yaml:"step" json:"step"`
	MinStep       float64 `yaml:"min_step" json:"min_step"`
	MaxStep       float64 `yaml:"max_step" json:"max_step"`
	MaxFrameDelta float64 `yaml:"max_frame_delta" json:"max_frame_delta"`
	TimeScale     float64 `yaml:"time_scale" json:"time_scale"`

	TelemetryInterval float64 `yaml:"telemetry_interval" json:"telemetry_interval"`
	MaxFlightTime     float64 `yaml:"max_flight_time" json:"max_flight_time"`

	// A projectile's step is halved when it is faster than FastSpeed or
	// lower than NearGround, and quartered when both hold.
	FastSpeed  float64 `yaml:"fast_speed" json:"fast_speed"`
	NearGround float64 `yaml:"near_ground" json:"near_ground"`

	Seed        int64                     `yaml:"seed" json:"seed"`
	Surface     contact.SurfaceType       `yaml:"surface" json:"surface"`
	Restitution contact.RestitutionPolicy `yaml:"restitution" json:"restitution"`
	Thresholds  contact.Thresholds        `yaml:"thresholds" json:"thresholds"`
	Gusts       bool                      `yaml:"gusts" json:"gusts"`
	Obstacles   []contact.Box             `yaml:"obstacles,omitempty" json:"obstacles,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Step:              1.0 / 120,
		MinStep:           1.0 / 960,
		MaxStep:           1.0 / 60,
		MaxFrameDelta:     0.1,
		TimeScale:         1,
		TelemetryInterval: 0.08,
		MaxFlightTime:     60,
		FastSpeed:         40,
		NearGround:        1,
		Surface:           contact.Grass,
		Restitution:       contact.Static,
		Thresholds:        contact.DefaultThresholds(),
		Gusts:             true,
	}
}

func (c Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"step", c.Step},
		{"min_step", c.MinStep},
		{"max_step", c.MaxStep},
		{"max_frame_delta", c.MaxFrameDelta},
		{"time_scale", c.TimeScale},
		{"telemetry_interval", c.TelemetryInterval},
		{"max_flight_time", c.MaxFlightTime},
	}
	for _, p := range positive {
		if !(p.v > 0) || math.IsInf(p.v, 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", dynamo.ErrInvalidConfig, p.name, p.v)
		}
	}
	if c.MinStep > c.Step || c.Step > c.MaxStep {
		return fmt.Errorf("%w: step %g outside [%g, %g]", dynamo.ErrInvalidConfig, c.Step, c.MinStep, c.MaxStep)
	}
	th := c.Thresholds
	if th.Tolerance < 0 || th.CollisionSpeed < 0 || th.RestSpeed <= 0 || th.RestVerticalSpeed <= 0 || th.CreepSpeed < 0 {
		return fmt.Errorf("%w: contact thresholds %+v", dynamo.ErrInvalidConfig, th)
	}
	return nil
}

// Option customizes an Engine.
type Option func(*Engine)

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithIntegrator(i integrators.Integrator) Option {
	return func(e *Engine) { e.integrator = i }
}

// WithObserver registers an observer before the first launch.
func WithObserver(o dynamo.Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

func WithGround(g contact.Ground) Option {
	return func(e *Engine) { e.resolver.Ground = g }
}
