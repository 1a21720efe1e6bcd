package integrators

import "github.com/san-kum/eomsim/internal/eom"

// Euler is the first-order explicit scheme. Position advances with the
// pre-step velocity:
//
//	x += v*dt
//	v += a(t, x, v)*dt
type Euler struct {
	base
	a eom.Vector
}

func NewEuler(e eom.EquationOfMotion, sample eom.Vector) *Euler {
	b := newBase(e, sample)
	return &Euler{base: b, a: eom.NewVector(b.n)}
}

// NewRK1 is Euler under its Runge-Kutta name.
func NewRK1(e eom.EquationOfMotion, sample eom.Vector) *Euler {
	return NewEuler(e, sample)
}

func (s *Euler) Step(t *float64, x, v eom.Vector, dt float64) {
	s.check(x, v)

	s.eom.Acceleration(*t, x, v, s.a)
	for i := 0; i < s.n; i++ {
		x[i] += v[i] * dt
		v[i] += s.a[i] * dt
	}
	*t += dt
}

func (s *Euler) Name() string { return "euler" }
func (s *Euler) Stages() int  { return 1 }
func (s *Euler) Order() int   { return 1 }
