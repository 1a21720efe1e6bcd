package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultModel       = "pendulum"
	DefaultIntegrator  = "rk4"
	DefaultDt          = 1.0 / 1024
	DefaultDuration    = 10.0
	DefaultSampleEvery = 1.0 / 128
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Model       string             `yaml:"model"`
	Integrator  string             `yaml:"integrator"`
	Dt          float64            `yaml:"dt"`
	Duration    float64            `yaml:"duration"`
	SampleEvery float64            `yaml:"sample_every"`
	Params      map[string]float64 `yaml:"params,omitempty"`
	Init        InitConfig         `yaml:"init,omitempty"`
}

// InitConfig overrides the model's default initial state. Both slices
// are left empty to keep the default.
type InitConfig struct {
	X []float64 `yaml:"x,flow,omitempty"`
	V []float64 `yaml:"v,flow,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:       DefaultModel,
		Integrator:  DefaultIntegrator,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		SampleEvery: DefaultSampleEvery,
		Params:      map[string]float64{},
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

func (c *Config) Validate() error {
	switch {
	case c.Model == "":
		return fmt.Errorf("%w: model is empty", ErrInvalid)
	case c.Integrator == "":
		return fmt.Errorf("%w: integrator is empty", ErrInvalid)
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Dt)
	case c.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalid, c.Duration)
	case c.SampleEvery < 0:
		return fmt.Errorf("%w: sample_every must not be negative, got %g", ErrInvalid, c.SampleEvery)
	case c.SampleEvery != 0 && c.SampleEvery < c.Dt:
		return fmt.Errorf("%w: sample_every %g is shorter than dt %g", ErrInvalid, c.SampleEvery, c.Dt)
	case len(c.Init.X) != len(c.Init.V):
		return fmt.Errorf("%w: init x has %d values but v has %d", ErrInvalid, len(c.Init.X), len(c.Init.V))
	}
	return nil
}

// Param returns the named model parameter or def when it is unset.
func (c *Config) Param(name string, def float64) float64 {
	if v, ok := c.Params[name]; ok {
		return v
	}
	return def
}

// Clone returns a deep copy, so presets can be modified safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Params = make(map[string]float64, len(c.Params))
	for k, v := range c.Params {
		out.Params[k] = v
	}
	out.Init.X = append([]float64(nil), c.Init.X...)
	out.Init.V = append([]float64(nil), c.Init.V...)
	return &out
}
