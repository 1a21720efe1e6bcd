package models

import "github.com/san-kum/eomsim/internal/eom"

const DefaultDamping = 0.0

// SpringChain is a line of masses joined by springs, with the first and
// last mass tied to fixed walls. Position i is the displacement of mass i
// from rest.
type SpringChain struct {
	Masses    []float64
	Stiffness []float64 // len(Masses)+1 springs, wall to wall
	Damping   []float64
}

func NewSpringChain(n int) *SpringChain {
	masses := make([]float64, n)
	stiffness := make([]float64, n+1)
	damping := make([]float64, n)

	for i := 0; i < n; i++ {
		masses[i] = DefaultMass
		stiffness[i] = DefaultStiffness
		damping[i] = DefaultDamping
	}
	stiffness[n] = DefaultStiffness

	return &SpringChain{
		Masses:    masses,
		Stiffness: stiffness,
		Damping:   damping,
	}
}

func (s *SpringChain) Dim() int { return len(s.Masses) }

func (s *SpringChain) Acceleration(t float64, x, v, a eom.Vector) {
	n := len(s.Masses)
	for i := 0; i < n; i++ {
		left := x[i]
		if i > 0 {
			left -= x[i-1]
		}
		right := x[i]
		if i < n-1 {
			right -= x[i+1]
		}
		force := -s.Stiffness[i]*left - s.Stiffness[i+1]*right - s.Damping[i]*v[i]
		a[i] = force / s.Masses[i]
	}
}

func (s *SpringChain) Energy(x, v eom.Vector) float64 {
	n := len(s.Masses)
	energy := 0.0

	for i := 0; i < n; i++ {
		energy += 0.5 * s.Masses[i] * v[i] * v[i]
	}

	energy += 0.5 * s.Stiffness[0] * x[0] * x[0]
	for i := 1; i < n; i++ {
		stretch := x[i] - x[i-1]
		energy += 0.5 * s.Stiffness[i] * stretch * stretch
	}
	energy += 0.5 * s.Stiffness[n] * x[n-1] * x[n-1]

	return energy
}
