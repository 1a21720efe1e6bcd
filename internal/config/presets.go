package config

import (
	"math"
	"sort"
)

var Presets = map[string]map[string]*Config{
	"oscillator": {
		"unit": {
			Model: "oscillator", Integrator: "rk4", Dt: 1.0 / 1024, Duration: 10, SampleEvery: 1.0 / 64,
			Params: map[string]float64{"k": 4, "m": 1},
			Init:   InitConfig{X: []float64{1}, V: []float64{0}},
		},
		"coarse_euler": {
			Model: "oscillator", Integrator: "euler", Dt: 0.25, Duration: 25, SampleEvery: 0.25,
			Params: map[string]float64{"k": 0.5, "m": 1},
			Init:   InitConfig{X: []float64{1}, V: []float64{0}},
		},
	},
	"forced_oscillator": {
		"reference": {
			Model: "forced_oscillator", Integrator: "rk4", Dt: 1.0 / 256, Duration: 20, SampleEvery: 1.0 / 32,
		},
	},
	"pendulum": {
		"release": {
			Model: "pendulum", Integrator: "rk4", Dt: 1.0 / 1024, Duration: 10, SampleEvery: 1.0 / 128,
			Params: map[string]float64{"g": 9.8, "length": 0.5, "theta": math.Pi / 3},
		},
		"small": {
			Model: "pendulum", Integrator: "rk4", Dt: 1.0 / 1024, Duration: 20, SampleEvery: 1.0 / 64,
			Params: map[string]float64{"g": 9.8, "length": 1, "theta": -math.Pi/2 + 0.1},
		},
		"over_the_top": {
			Model: "pendulum", Integrator: "rk4", Dt: 1.0 / 2048, Duration: 10, SampleEvery: 1.0 / 128,
			Params: map[string]float64{"g": 9.8, "length": 1, "theta": math.Pi/2 - 0.01},
		},
	},
	"double_pendulum": {
		"chaos": {
			Model: "double_pendulum", Integrator: "rk4", Dt: 1.0 / 1024, Duration: 9.765625, SampleEvery: 1.0 / 128,
			Params: map[string]float64{"g": 1},
			Init:   InitConfig{X: []float64{2, 2}, V: []float64{0, 0}},
		},
		"gentle": {
			Model: "double_pendulum", Integrator: "rk4", Dt: 1.0 / 512, Duration: 30, SampleEvery: 1.0 / 64,
			Params: map[string]float64{"g": 9.81},
			Init:   InitConfig{X: []float64{0.3, 0.3}, V: []float64{0, 0}},
		},
	},
	"spring_chain": {
		"pluck": {
			Model: "spring_chain", Integrator: "verlet", Dt: 1.0 / 512, Duration: 20, SampleEvery: 1.0 / 32,
			Params: map[string]float64{"n": 5},
			Init:   InitConfig{X: []float64{0, 0, 1, 0, 0}, V: []float64{0, 0, 0, 0, 0}},
		},
		"damped": {
			Model: "spring_chain", Integrator: "rk4", Dt: 1.0 / 512, Duration: 20, SampleEvery: 1.0 / 32,
			Params: map[string]float64{"n": 3, "damping": 0.2},
			Init:   InitConfig{X: []float64{1, 0, -1}, V: []float64{0, 0, 0}},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
