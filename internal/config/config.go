package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nicosim/internal/pharm"
	"github.com/san-kum/nicosim/internal/sim"
)

// Session run defaults.
const (
	DefaultDt          = 1.0
	DefaultDurationMin = 60.0
)

// Config describes one headless simulation run: the preset to start from,
// how long and how finely to step, and optional overrides applied through
// the driver's parameter boundary.
type Config struct {
	Preset      string             `yaml:"preset"`
	Seed        int64              `yaml:"seed"`
	Dt          float64            `yaml:"dt"`
	DurationMin float64            `yaml:"duration_min"`
	PuffRate    *float64           `yaml:"puff_rate,omitempty"`
	Params      map[string]float64 `yaml:"params,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:      string(sim.DefaultPreset),
		Dt:          DefaultDt,
		DurationMin: DefaultDurationMin,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// Validate checks the run settings and every parameter override.
func (c *Config) Validate() error {
	if _, ok := sim.ParsePreset(c.Preset); !ok {
		return fmt.Errorf("unknown preset: %q (available: %v)", c.Preset, sim.Presets())
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.DurationMin <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.DurationMin)
	}
	if c.PuffRate != nil && *c.PuffRate < 0 {
		return fmt.Errorf("puff rate must be non-negative, got %g", *c.PuffRate)
	}
	params := pharm.DefaultParams()
	for key, value := range c.Params {
		if err := params.SetParam(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Apply configures a driver from the run settings: preset first, then
// parameter overrides, then the optional puff-rate override.
func (c *Config) Apply(d *sim.Driver) error {
	if err := c.Validate(); err != nil {
		return err
	}
	preset, _ := sim.ParsePreset(c.Preset)
	if err := d.ApplyPreset(preset); err != nil {
		return err
	}
	if len(c.Params) > 0 {
		if err := d.SetParams(c.Params); err != nil {
			return err
		}
	}
	if c.PuffRate != nil {
		if err := d.SetPuffRate(*c.PuffRate); err != nil {
			return err
		}
	}
	if c.Seed != 0 {
		d.Reseed(c.Seed)
	}
	return nil
}
