package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, "pendulum", cfg.Model)
	require.Equal(t, "rk4", cfg.Integrator)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty model", func(c *Config) { c.Model = "" }},
		{"empty integrator", func(c *Config) { c.Integrator = "" }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"negative sample", func(c *Config) { c.SampleEvery = -0.5 }},
		{"sample below dt", func(c *Config) { c.SampleEvery = c.Dt / 2 }},
		{"init length mismatch", func(c *Config) { c.Init.X = []float64{1, 0} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("spring_chain", "damped")
	require.NotNil(t, cfg)
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: oscillator\nparams:\n  k: 9\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "oscillator", cfg.Model)
	require.Equal(t, DefaultIntegrator, cfg.Integrator)
	require.Equal(t, DefaultDt, cfg.Dt)
	require.Equal(t, 9.0, cfg.Param("k", 1))
	require.Equal(t, 1.0, cfg.Param("m", 1))
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dt: -1\n"), 0644))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("pendulum", "release")
	require.NotNil(t, cfg)
	require.Equal(t, 0.5, cfg.Params["length"])
	require.NoError(t, cfg.Validate())

	cfg.Params["length"] = 3
	require.Equal(t, 0.5, GetPreset("pendulum", "release").Params["length"], "presets must be returned as copies")

	require.Nil(t, GetPreset("pendulum", "missing"))
	require.Nil(t, GetPreset("missing", "release"))
}

func TestPresetsAreValid(t *testing.T) {
	for model, presets := range Presets {
		for name, cfg := range presets {
			require.Equal(t, model, cfg.Model, "%s/%s", model, name)
			require.NoError(t, cfg.Validate(), "%s/%s", model, name)
		}
	}
}

func TestListPresets(t *testing.T) {
	require.Equal(t, []string{"over_the_top", "release", "small"}, ListPresets("pendulum"))
	require.Nil(t, ListPresets("missing"))
}
