package integrators

import "github.com/san-kum/eomsim/internal/eom"

// RK2 is the explicit midpoint method. The position update uses the
// midpoint velocity v1, not a blend of stages.
type RK2 struct {
	base
	x1, v1, a eom.Vector
}

func NewRK2(e eom.EquationOfMotion, sample eom.Vector) *RK2 {
	b := newBase(e, sample)
	return &RK2{
		base: b,
		x1:   eom.NewVector(b.n),
		v1:   eom.NewVector(b.n),
		a:    eom.NewVector(b.n),
	}
}

func (s *RK2) Step(t *float64, x, v eom.Vector, dt float64) {
	s.check(x, v)
	n := s.n
	dt2 := dt / 2

	// k1
	s.eom.Acceleration(*t, x, v, s.a)
	for i := 0; i < n; i++ {
		s.x1[i] = x[i] + v[i]*dt2
		s.v1[i] = v[i] + s.a[i]*dt2
	}

	// k2
	s.eom.Acceleration(*t+dt2, s.x1, s.v1, s.a)
	for i := 0; i < n; i++ {
		x[i] += s.v1[i] * dt
		v[i] += s.a[i] * dt
	}
	*t += dt
}

func (s *RK2) Name() string { return "rk2" }
func (s *RK2) Stages() int  { return 2 }
func (s *RK2) Order() int   { return 2 }
