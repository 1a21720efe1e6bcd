package integrators

import "github.com/san-kum/eomsim/internal/eom"

// Verlet is velocity Verlet. For velocity-dependent forces the end-of-step
// acceleration is evaluated with the Euler-predicted velocity, which keeps
// the scheme explicit and second order.
type Verlet struct {
	base
	x1, v1, a1, a2 eom.Vector
}

func NewVerlet(e eom.EquationOfMotion, sample eom.Vector) *Verlet {
	b := newBase(e, sample)
	return &Verlet{
		base: b,
		x1:   eom.NewVector(b.n),
		v1:   eom.NewVector(b.n),
		a1:   eom.NewVector(b.n),
		a2:   eom.NewVector(b.n),
	}
}

func (s *Verlet) Step(t *float64, x, v eom.Vector, dt float64) {
	s.check(x, v)
	n := s.n
	halfDt := 0.5 * dt

	s.eom.Acceleration(*t, x, v, s.a1)
	for i := 0; i < n; i++ {
		s.x1[i] = x[i] + (v[i]+s.a1[i]*halfDt)*dt
		s.v1[i] = v[i] + s.a1[i]*dt
	}

	s.eom.Acceleration(*t+dt, s.x1, s.v1, s.a2)
	for i := 0; i < n; i++ {
		x[i] = s.x1[i]
		v[i] += (s.a1[i] + s.a2[i]) * halfDt
	}
	*t += dt
}

func (s *Verlet) Name() string { return "verlet" }
func (s *Verlet) Stages() int  { return 2 }
func (s *Verlet) Order() int   { return 2 }
