package config

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/nbody"
	"github.com/san-kum/orbitsim/internal/scenario"
)

const (
	DefaultScenario    = "figure8"
	DefaultDuration    = 10.0
	DefaultSpeedFactor = 1.0
	DefaultSampleEvery = 1
	DefaultAddr        = ":8080"
	DefaultFPS         = 60

	// CustomScenario names a run whose bodies come from the config file.
	CustomScenario = "custom"
	customDt       = 0.01
)

type Config struct {
	Scenario    string       `yaml:"scenario"`
	Dt          float64      `yaml:"dt,omitempty"`
	Duration    float64      `yaml:"duration"`
	SpeedFactor float64      `yaml:"speed_factor"`
	Seed        int64        `yaml:"seed"`
	NumBodies   int          `yaml:"num_bodies,omitempty"`
	G           float32      `yaml:"g,omitempty"`
	SampleEvery int          `yaml:"sample_every"`
	Bodies      []BodyConfig `yaml:"bodies,omitempty"`
	Server      ServerConfig `yaml:"server"`
}

type BodyConfig struct {
	Name     string     `yaml:"name"`
	Mass     float32    `yaml:"mass"`
	Position [3]float32 `yaml:"position,flow"`
	Velocity [3]float32 `yaml:"velocity,flow"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	FPS  int    `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:    DefaultScenario,
		Duration:    DefaultDuration,
		SpeedFactor: DefaultSpeedFactor,
		SampleEvery: DefaultSampleEvery,
		Server: ServerConfig{
			Addr: DefaultAddr,
			FPS:  DefaultFPS,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.Bodies) > 0 && cfg.Scenario == DefaultScenario {
		cfg.Scenario = CustomScenario
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks ranges. A zero Dt or G means the scenario default.
func (c *Config) Validate() error {
	switch {
	case c.Scenario == "":
		return fmt.Errorf("scenario must be set")
	case c.Scenario == CustomScenario && len(c.Bodies) == 0:
		return fmt.Errorf("custom scenario needs at least one body")
	case c.Dt < 0 || math.IsNaN(c.Dt):
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	case !(c.Duration > 0):
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	case !(c.SpeedFactor > 0):
		return fmt.Errorf("speed_factor must be positive, got %f", c.SpeedFactor)
	case c.SampleEvery < 0:
		return fmt.Errorf("sample_every must not be negative, got %d", c.SampleEvery)
	case c.NumBodies < 0:
		return fmt.Errorf("num_bodies must not be negative, got %d", c.NumBodies)
	case c.G < 0 || math.IsNaN(float64(c.G)) || math.IsInf(float64(c.G), 0):
		return fmt.Errorf("g must be a positive number, got %g", c.G)
	case c.Server.FPS < 0:
		return fmt.Errorf("server.fps must not be negative, got %d", c.Server.FPS)
	}
	return nil
}

// Build resolves the scenario, applies the config overrides and returns
// the scenario together with a fresh universe built from it.
func (c *Config) Build(reg *scenario.Registry) (*scenario.Scenario, *nbody.Universe, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	var s *scenario.Scenario
	if c.Scenario == CustomScenario {
		s = c.custom()
	} else {
		var err error
		s, err = reg.Get(c.Scenario, scenario.Params{NumBodies: c.NumBodies, Seed: c.Seed})
		if err != nil {
			return nil, nil, err
		}
	}

	if c.G > 0 {
		s.G = c.G
	}
	if c.Dt > 0 {
		s.Dt = c.Dt
	}

	u, err := s.Universe()
	if err != nil {
		return nil, nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return s, u, nil
}

func (c *Config) custom() *scenario.Scenario {
	bodies := make([]nbody.BodySpec, len(c.Bodies))
	for i, b := range c.Bodies {
		bodies[i] = nbody.BodySpec{
			Name:     b.Name,
			Mass:     b.Mass,
			Position: mgl32.Vec3(b.Position),
			Velocity: mgl32.Vec3(b.Velocity),
		}
	}
	return &scenario.Scenario{
		Name:        CustomScenario,
		Description: "bodies from config",
		G:           1,
		Dt:          customDt,
		Bodies:      bodies,
		Colors:      scenario.Palette(len(bodies)),
	}
}
