package integrators

import (
	"fmt"

	"github.com/san-kum/eomsim/internal/eom"
)

// base binds a stepper to one model and one state dimension.
type base struct {
	eom eom.EquationOfMotion
	n   int
}

func newBase(e eom.EquationOfMotion, sample eom.Vector) base {
	if d, ok := e.(eom.Dimensioned); ok {
		eom.MustMatch("initial state", d.Dim(), sample)
	}
	return base{eom: e, n: len(sample)}
}

func (b *base) Dim() int { return b.n }

func (b *base) check(x, v eom.Vector) {
	eom.MustMatch("x", b.n, x)
	eom.MustMatch("v", b.n, v)
}

// Names lists the steppers accepted by New.
var Names = []string{"euler", "rk1", "rk2", "rk4", "verlet"}

// New builds the named stepper for e, sized from sample.
func New(name string, e eom.EquationOfMotion, sample eom.Vector) (eom.Stepper, error) {
	switch name {
	case "euler":
		return NewEuler(e, sample), nil
	case "rk1":
		return NewRK1(e, sample), nil
	case "rk2":
		return NewRK2(e, sample), nil
	case "rk4":
		return NewRK4(e, sample), nil
	case "verlet":
		return NewVerlet(e, sample), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

// Described is implemented by every stepper in this package.
type Described interface {
	Name() string
	Stages() int
	Order() int
}

// Order returns the global order of accuracy of s, or 0 for a stepper
// that does not describe itself.
func Order(s eom.Stepper) int {
	if d, ok := s.(Described); ok {
		return d.Order()
	}
	return 0
}
