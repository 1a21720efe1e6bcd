package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/eomsim/internal/eom"
	"github.com/san-kum/eomsim/internal/models"
)

func TestEnergyDrift(t *testing.T) {
	osc := models.NewOscillator(4, 1)
	m := NewEnergyDrift(osc)

	m.Observe(0, eom.Vector{1}, eom.Vector{0})
	if m.Value() != 0 {
		t.Errorf("expected zero drift after one sample, got %f", m.Value())
	}

	// E = 0.5*(4*1 + 1*1) = 2.5 against 2.0
	m.Observe(1, eom.Vector{1}, eom.Vector{1})
	if math.Abs(m.Value()-0.25) > 1e-12 {
		t.Errorf("expected drift 0.25, got %f", m.Value())
	}

	m.Observe(2, eom.Vector{1}, eom.Vector{0})
	if math.Abs(m.Value()-0.25) > 1e-12 {
		t.Errorf("drift should keep its maximum, got %f", m.Value())
	}
	if m.Current() != 2.0 {
		t.Errorf("expected current energy 2.0, got %f", m.Current())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestEnergyDriftSkipsOverflow(t *testing.T) {
	osc := models.NewOscillator(4, 1)
	m := NewEnergyDrift(osc)

	m.Observe(0, eom.Vector{1}, eom.Vector{0})
	m.Observe(1, eom.Vector{1}, eom.Vector{1})
	// x*x overflows to +Inf
	m.Observe(2, eom.Vector{1e200}, eom.Vector{0})
	m.Observe(3, eom.Vector{math.NaN()}, eom.Vector{0})

	if math.Abs(m.Value()-0.25) > 1e-12 {
		t.Errorf("expected drift 0.25 from the finite samples, got %v", m.Value())
	}
	if m.Current() != 2.5 {
		t.Errorf("expected current energy 2.5, got %v", m.Current())
	}
}

type noEnergy struct{}

func (noEnergy) Acceleration(t float64, x, v, a eom.Vector) {}

func TestEnergyDriftIgnoresModelsWithoutEnergy(t *testing.T) {
	m := NewEnergyDrift(noEnergy{})
	m.Observe(0, eom.Vector{1}, eom.Vector{0})
	m.Observe(1, eom.Vector{5}, eom.Vector{5})
	if m.Value() != 0 {
		t.Errorf("expected zero drift, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	s := NewStability(10)
	if s.Value() != 1.0 {
		t.Errorf("expected 1.0 with no samples, got %f", s.Value())
	}

	s.Observe(0, eom.Vector{1, 2}, eom.Vector{0, 0})
	s.Observe(0, eom.Vector{1, 20}, eom.Vector{0, 0})
	s.Observe(0, eom.Vector{1, 2}, eom.Vector{math.NaN(), 0})
	s.Observe(0, eom.Vector{-3, 2}, eom.Vector{0, -9})

	if math.Abs(s.Value()-0.5) > 1e-12 {
		t.Errorf("expected stability 0.5, got %f", s.Value())
	}
}

func TestConstraintError(t *testing.T) {
	c := NewConstraintError(1)
	c.Observe(0, eom.Vector{0.6, 0.8}, eom.Vector{0, 0})
	if c.Value() > 1e-15 {
		t.Errorf("expected no error on the sphere, got %g", c.Value())
	}
	c.Observe(0, eom.Vector{0, 1.5}, eom.Vector{0, 0})
	if math.Abs(c.Value()-0.5) > 1e-12 {
		t.Errorf("expected 0.5, got %g", c.Value())
	}
	c.Reset()
	if c.Value() != 0 {
		t.Error("expected reset")
	}
}
