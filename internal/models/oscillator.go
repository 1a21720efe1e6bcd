package models

import (
	"math"

	"github.com/san-kum/eomsim/internal/eom"
)

const (
	DefaultMass      = 1.0
	DefaultStiffness = 4.0
	DefaultGravity   = 9.81
)

// Oscillator is a one-dimensional undamped spring: a = -k/m * x.
type Oscillator struct {
	K, M float64
}

func NewOscillator(k, m float64) *Oscillator {
	return &Oscillator{K: k, M: m}
}

func (o *Oscillator) Dim() int { return 1 }

func (o *Oscillator) Acceleration(t float64, x, v, a eom.Vector) {
	a[0] = -o.K * x[0] / o.M
}

func (o *Oscillator) Energy(x, v eom.Vector) float64 {
	return 0.5 * (o.K*x[0]*x[0] + o.M*v[0]*v[0])
}

// Exact returns the closed-form position and velocity at time t.
func (o *Oscillator) Exact(t, x0, v0 float64) (x, v float64) {
	w := math.Sqrt(o.K / o.M)
	sin, cos := math.Sincos(w * t)
	return x0*cos + v0/w*sin, -x0*w*sin + v0*cos
}
