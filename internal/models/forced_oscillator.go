package models

import (
	"math"

	"github.com/san-kum/eomsim/internal/eom"
)

// ForcedOscillator is a bank of independent damped, driven oscillators:
//
//	a + 2ζω₀v + ω₀²x = f cos(ωt)
//
// Every channel has a closed-form solution, which makes the model the
// reference problem for order-of-accuracy checks.
type ForcedOscillator struct {
	X0, V0 []float64
	Zeta   []float64
	Omega0 []float64
	Omega  []float64
	F      []float64
}

// DefaultForcedOscillator covers undamped, under-, critically and
// over-damped channels with and without forcing.
func DefaultForcedOscillator() *ForcedOscillator {
	return &ForcedOscillator{
		X0:     []float64{1.0, 2.0, 1.5, -1.0, -0.5, 0.0},
		V0:     []float64{0.0, 1.0, -2.0, 0.5, 1.5, 0.0},
		Zeta:   []float64{0.0, 0.5, 1.0, 0.8, 1.5, 0.1},
		Omega0: []float64{0.25, 0.5, 1.0, 0.75, 1.25, 0.25},
		Omega:  []float64{0.0, 1.0, 0.25, 0.8, 0.5, 0.5},
		F:      []float64{0.0, 0.1, 0.5, 1.0, -1.0, -0.25},
	}
}

func (f *ForcedOscillator) Dim() int { return len(f.Zeta) }

func (f *ForcedOscillator) InitState() (x, v eom.Vector) {
	return eom.Vector(f.X0).Clone(), eom.Vector(f.V0).Clone()
}

func (f *ForcedOscillator) Acceleration(t float64, x, v, a eom.Vector) {
	for i := range a {
		p := -2 * f.Zeta[i] * f.Omega0[i] * v[i]
		q := -f.Omega0[i] * f.Omega0[i] * x[i]
		r := f.F[i] * math.Cos(f.Omega[i]*t)
		a[i] = p + q + r
	}
}

// ExactPosition returns the analytic position of every channel at time t.
func (f *ForcedOscillator) ExactPosition(t float64) eom.Vector {
	pos := eom.NewVector(f.Dim())
	for i := range pos {
		z, w0, w, amp := f.Zeta[i], f.Omega0[i], f.Omega[i], f.F[i]
		px0, pv0 := particularSolution(0, z, w0, w, amp)
		g := generalSolution(t, f.X0[i]-px0, f.V0[i]-pv0, z, w0)
		p, _ := particularSolution(t, z, w0, w, amp)
		pos[i] = g + p
	}
	return pos
}

// generalSolution solves the homogeneous equation for x(0)=x0, v(0)=v0.
func generalSolution(t, x0, v0, zeta, omega0 float64) float64 {
	switch {
	case zeta == 0:
		wt := omega0 * t
		return x0*math.Cos(wt) + v0/omega0*math.Sin(wt)
	case zeta < 1:
		wd := omega0 * math.Sqrt(1-zeta*zeta)
		a := (v0 + zeta*omega0*x0) / wd
		return math.Exp(-zeta*omega0*t) * (x0*math.Cos(wd*t) + a*math.Sin(wd*t))
	case zeta == 1:
		return math.Exp(-omega0*t) * (x0 + (v0+omega0*x0)*t)
	default:
		wd := omega0 * math.Sqrt(zeta*zeta-1)
		a := (v0 + zeta*omega0*x0) / wd
		return math.Exp(-zeta*omega0*t) * (x0*math.Cosh(wd*t) + a*math.Sinh(wd*t))
	}
}

// particularSolution returns the steady-state position and velocity.
func particularSolution(t, zeta, omega0, omega, f float64) (x, v float64) {
	p := 2 * zeta * omega0 * omega
	q := omega0*omega0 - omega*omega
	den := p*p + q*q
	sin, cos := math.Sincos(omega * t)
	return f * (p*sin + q*cos) / den, f * omega * (p*cos - q*sin) / den
}
