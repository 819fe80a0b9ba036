package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trajsim/internal/contact"
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/integrators"
	"github.com/san-kum/trajsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultIntegrator = "rk4"
	DefaultGround     = "flat"
	DefaultPreset     = "calm"
)

type Config struct {
	Integrator  string                  `yaml:"integrator"`
	Preset      string                  `yaml:"preset,omitempty"`
	Engine      sim.Config              `yaml:"engine"`
	Environment dynamo.EnvironmentState `yaml:"environment"`
	Ground      GroundConfig            `yaml:"ground"`
	Obstacles   []ObstacleConfig        `yaml:"obstacles,omitempty"`
}

type GroundConfig struct {
	Kind      string  `yaml:"kind"`
	Amplitude float64 `yaml:"amplitude,omitempty"`
	Frequency float64 `yaml:"frequency,omitempty"`
}

// ObstacleConfig is a static box given by center and full size.
type ObstacleConfig struct {
	Center mgl64.Vec3 `yaml:"center"`
	Size   mgl64.Vec3 `yaml:"size"`
}

// DefaultConfig uses grass, whose restitution scales the projectile's own.
// A restitution 0.5 ball hitting at 10 m/s rebounds at 5 m/s only on concrete;
// on grass it rebounds at 3.75 m/s.
func DefaultConfig() *Config {
	return &Config{
		Integrator:  DefaultIntegrator,
		Engine:      sim.DefaultConfig(),
		Environment: dynamo.DefaultEnvironment(),
		Ground:      GroundConfig{Kind: DefaultGround},
	}
}

// Load reads a YAML file over the defaults. A named preset replaces the
// environment before the file's own environment keys are applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var probe struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if probe.Preset != "" {
		if err := cfg.ApplyPreset(probe.Preset); err != nil {
			return nil, err
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyPreset copies a named environment preset into c.
func (c *Config) ApplyPreset(name string) error {
	p, ok := Presets[name]
	if !ok {
		return fmt.Errorf("%w: unknown preset %q", dynamo.ErrInvalidConfig, name)
	}
	c.Preset = name
	c.Environment = p.Environment
	c.Engine.Gusts = p.Gusts
	return nil
}

func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	if _, err := integrators.New(c.Integrator); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}
	env := c.Environment
	if env.Gravity < 0 || env.AirDensity < 0 || env.Temperature <= 0 {
		return fmt.Errorf("%w: environment %+v", dynamo.ErrInvalidConfig, env)
	}
	switch strings.ToLower(c.Ground.Kind) {
	case "", "flat":
	case "bumpy":
		if c.Ground.Frequency < 0 {
			return fmt.Errorf("%w: negative ground frequency", dynamo.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown ground %q", dynamo.ErrInvalidConfig, c.Ground.Kind)
	}
	for i, o := range c.Obstacles {
		if o.Size[0] <= 0 || o.Size[1] <= 0 || o.Size[2] <= 0 {
			return fmt.Errorf("%w: obstacle %d has non-positive size", dynamo.ErrInvalidConfig, i)
		}
	}
	return nil
}

// ToEnvironment returns the environment new launches start from.
func (c *Config) ToEnvironment() dynamo.EnvironmentState {
	return c.Environment.Clone()
}

// ToEngine returns the engine configuration with obstacles resolved.
func (c *Config) ToEngine() sim.Config {
	ec := c.Engine
	ec.Obstacles = append([]contact.Box(nil), ec.Obstacles...)
	for _, o := range c.Obstacles {
		ec.Obstacles = append(ec.Obstacles, contact.NewBox(o.Center, o.Size))
	}
	return ec
}

func (c *Config) GroundModel() contact.Ground {
	if strings.ToLower(c.Ground.Kind) != "bumpy" {
		return contact.FlatGround{}
	}
	g := contact.NewBumpyGround()
	if c.Ground.Amplitude != 0 {
		g.Amplitude = c.Ground.Amplitude
	}
	if c.Ground.Frequency != 0 {
		g.Frequency = c.Ground.Frequency
	}
	return g
}

// NewEngine builds an engine from c. Extra options are applied last.
func (c *Config) NewEngine(extra ...sim.Option) (*sim.Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	integ, err := integrators.New(c.Integrator)
	if err != nil {
		return nil, err
	}
	opts := append([]sim.Option{sim.WithIntegrator(integ), sim.WithGround(c.GroundModel())}, extra...)
	return sim.New(c.ToEngine(), opts...)
}
