package models

import (
	"math"
	"testing"

	"github.com/san-kum/eomsim/internal/eom"
	"github.com/stretchr/testify/require"
)

func TestOscillatorAcceleration(t *testing.T) {
	osc := NewOscillator(4, 2)
	a := eom.NewVector(1)

	osc.Acceleration(0, eom.Vector{1}, eom.Vector{0}, a)
	require.Equal(t, -2.0, a[0])

	osc.Acceleration(0, eom.Vector{0}, eom.Vector{3}, a)
	require.Equal(t, 0.0, a[0], "spring force must not depend on velocity")
}

func TestOscillatorEnergy(t *testing.T) {
	osc := NewOscillator(4, 1)
	require.Equal(t, 2.0, osc.Energy(eom.Vector{1}, eom.Vector{0}))
	require.Equal(t, 2.0, osc.Energy(eom.Vector{0}, eom.Vector{2}))
}

func TestOscillatorExact(t *testing.T) {
	osc := NewOscillator(4, 1)

	x, v := osc.Exact(0, 1, 0.5)
	require.InDelta(t, 1.0, x, 1e-15)
	require.InDelta(t, 0.5, v, 1e-15)

	// one full period returns to the start
	x, v = osc.Exact(math.Pi, 1, 0.5)
	require.InDelta(t, 1.0, x, 1e-12)
	require.InDelta(t, 0.5, v, 1e-12)

	// exact solution conserves energy
	for _, tm := range []float64{0.3, 1.7, 4.2} {
		x, v = osc.Exact(tm, 1, 0.5)
		require.InDelta(t, osc.Energy(eom.Vector{1}, eom.Vector{0.5}), osc.Energy(eom.Vector{x}, eom.Vector{v}), 1e-12)
	}
}

func TestForcedOscillatorExactMatchesInitialState(t *testing.T) {
	f := DefaultForcedOscillator()
	x0, _ := f.InitState()

	got := f.ExactPosition(0)
	for i := range x0 {
		require.InDelta(t, x0[i], got[i], 1e-12, "channel %d", i)
	}
}

func TestForcedOscillatorExactSolvesEquation(t *testing.T) {
	f := DefaultForcedOscillator()
	a := eom.NewVector(f.Dim())
	const h = 1e-4

	for _, tm := range []float64{0.5, 1.0, 2.5} {
		prev, cur, next := f.ExactPosition(tm-h), f.ExactPosition(tm), f.ExactPosition(tm+h)
		vel := eom.NewVector(f.Dim())
		for i := range vel {
			vel[i] = (next[i] - prev[i]) / (2 * h)
		}
		f.Acceleration(tm, cur, vel, a)

		for i := range a {
			acc := (next[i] - 2*cur[i] + prev[i]) / (h * h)
			require.InDelta(t, a[i], acc, 1e-5, "channel %d at t=%v", i, tm)
		}
	}
}

func TestForcedOscillatorInitStateIsCopy(t *testing.T) {
	f := DefaultForcedOscillator()
	x, v := f.InitState()
	x[0] = 99
	v[0] = 99

	require.Equal(t, 1.0, f.X0[0])
	require.Equal(t, 0.0, f.V0[0])
}
