package integrators

import "github.com/san-kum/eomsim/internal/eom"

// RK4 applies the classical fourth-order tableau to the second-order
// system directly: velocity stages drive the position increment and
// acceleration stages drive the velocity increment, both weighted
// (1, 2, 2, 1)/6.
type RK4 struct {
	base
	x1, x2, x3     eom.Vector
	v1, v2, v3     eom.Vector
	a1, a2, a3, a4 eom.Vector
}

func NewRK4(e eom.EquationOfMotion, sample eom.Vector) *RK4 {
	b := newBase(e, sample)
	n := b.n
	return &RK4{
		base: b,
		x1:   eom.NewVector(n),
		x2:   eom.NewVector(n),
		x3:   eom.NewVector(n),
		v1:   eom.NewVector(n),
		v2:   eom.NewVector(n),
		v3:   eom.NewVector(n),
		a1:   eom.NewVector(n),
		a2:   eom.NewVector(n),
		a3:   eom.NewVector(n),
		a4:   eom.NewVector(n),
	}
}

func (s *RK4) Step(t *float64, x, v eom.Vector, dt float64) {
	s.check(x, v)
	n := s.n
	dt2 := dt / 2
	dt6 := dt / 6

	// k1
	s.eom.Acceleration(*t, x, v, s.a1)
	for i := 0; i < n; i++ {
		s.x1[i] = x[i] + v[i]*dt2
		s.v1[i] = v[i] + s.a1[i]*dt2
	}

	// k2
	s.eom.Acceleration(*t+dt2, s.x1, s.v1, s.a2)
	for i := 0; i < n; i++ {
		s.x2[i] = x[i] + s.v1[i]*dt2
		s.v2[i] = v[i] + s.a2[i]*dt2
	}

	// k3; the last stage is reached over the full step
	s.eom.Acceleration(*t+dt2, s.x2, s.v2, s.a3)
	for i := 0; i < n; i++ {
		s.x3[i] = x[i] + s.v2[i]*dt
		s.v3[i] = v[i] + s.a3[i]*dt
	}

	// k4
	s.eom.Acceleration(*t+dt, s.x3, s.v3, s.a4)

	for i := 0; i < n; i++ {
		x[i] += (v[i] + 2*(s.v1[i]+s.v2[i]) + s.v3[i]) * dt6
		v[i] += (s.a1[i] + 2*(s.a2[i]+s.a3[i]) + s.a4[i]) * dt6
	}
	*t += dt
}

func (s *RK4) Name() string { return "rk4" }
func (s *RK4) Stages() int  { return 4 }
func (s *RK4) Order() int   { return 4 }
