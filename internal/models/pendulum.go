package models

import (
	"math"

	"github.com/san-kum/eomsim/internal/eom"
)

// Pendulum is a point mass on a rigid rod in Cartesian coordinates,
// nondimensionalised so the rod has unit length and time is measured in
// τ = sqrt(L/|g|). Rod tension enters as a Lagrange multiplier; drift off
// the unit sphere is removed by Correct.
type Pendulum struct {
	G      eom.Vector // gravity in reduced units, |G| = 1
	Length float64
	Tau    float64
}

// NewPendulum builds a pendulum from a physical gravity vector (e.g.
// {0, -9.81}) and rod length.
func NewPendulum(gravity eom.Vector, length float64) *Pendulum {
	tau := math.Sqrt(length / gravity.Norm())
	g := gravity.Clone()
	g.Scale(tau * tau / length)
	return &Pendulum{G: g, Length: length, Tau: tau}
}

func (p *Pendulum) Dim() int { return len(p.G) }

func (p *Pendulum) Acceleration(t float64, x, v, a eom.Vector) {
	lambda := v.Norm2() + eom.Dot(x, p.G)
	for i := range a {
		a[i] = p.G[i] - lambda*x[i]
	}
}

// Correct projects the position back onto the unit sphere.
func (p *Pendulum) Correct(t float64, x, v eom.Vector) {
	length := x.Norm()
	if length == 0 || length == 1 {
		return
	}
	x.Scale(1 / length)
}

// Energy is the reduced kinetic plus potential energy.
func (p *Pendulum) Energy(x, v eom.Vector) float64 {
	return 0.5*v.Norm2() - eom.Dot(x, p.G)
}

// Redimension converts a reduced state back to seconds and metres.
func (p *Pendulum) Redimension(t float64, x, v eom.Vector) (float64, eom.Vector, eom.Vector) {
	dx := x.Clone()
	dx.Scale(p.Length)
	dv := v.Clone()
	dv.Scale(p.Length / p.Tau)
	return t * p.Tau, dx, dv
}

// StateAt returns the reduced state of a pendulum released from rest at
// angle theta from the +x axis, in the plane of the first two coordinates.
func (p *Pendulum) StateAt(theta float64) (x, v eom.Vector) {
	x = eom.NewVector(p.Dim())
	v = eom.NewVector(p.Dim())
	x[0], x[1] = math.Cos(theta), math.Sin(theta)
	return x, v
}
