package models

import (
	"math"

	"github.com/san-kum/eomsim/internal/eom"
	"gonum.org/v1/gonum/mat"
)

// DoublePendulum has two equal unit masses on unit rods. State is the
// pair of angles from the downward vertical and their rates.
//
// The accelerations solve M(θ)·a = r, where the off-diagonal term of the
// mass matrix depends on θ1-θ2. The matrix and its factorisation are
// cached on the model and refreshed on every call, so a DoublePendulum
// must not be shared between goroutines.
type DoublePendulum struct {
	G float64

	mass *mat.Dense
	lu   mat.LU
	rhs  *mat.VecDense
	sol  *mat.VecDense
}

func NewDoublePendulum(g float64) *DoublePendulum {
	return &DoublePendulum{
		G:    g,
		mass: mat.NewDense(2, 2, []float64{2, 0, 0, 1}),
		rhs:  mat.NewVecDense(2, nil),
		sol:  mat.NewVecDense(2, nil),
	}
}

func (d *DoublePendulum) Dim() int { return 2 }

func (d *DoublePendulum) Acceleration(t float64, x, v, a eom.Vector) {
	s := math.Sin(x[1] - x[0])
	d.rhs.SetVec(0, s*v[1]*v[1]-2*d.G*math.Sin(x[0]))
	d.rhs.SetVec(1, -s*v[0]*v[0]-d.G*math.Sin(x[1]))

	c := math.Cos(x[0] - x[1])
	d.mass.Set(0, 1, c)
	d.mass.Set(1, 0, c)
	d.lu.Factorize(d.mass)
	if err := d.lu.SolveVecTo(d.sol, false, d.rhs); err != nil {
		// det(M) = 2 - c² >= 1, so only non-finite input lands here
		a[0], a[1] = math.NaN(), math.NaN()
		return
	}
	a[0], a[1] = d.sol.AtVec(0), d.sol.AtVec(1)
}

func (d *DoublePendulum) Energy(x, v eom.Vector) float64 {
	kinetic := (2*v[0]*v[0]+v[1]*v[1])*0.5 + v[0]*v[1]*math.Cos(x[0]-x[1])
	potential := -d.G * (2*math.Cos(x[0]) + math.Cos(x[1]))
	return kinetic + potential
}
