// Package driver advances a stepper over many steps: a fixed step count,
// or until simulated time reaches a target.
package driver

import (
	"errors"
	"fmt"

	"github.com/san-kum/eomsim/internal/eom"
)

// ErrNonPositiveStep is wrapped by the panic value of AdvanceUntil when
// dt <= 0 would keep it from ever reaching its target time.
var ErrNonPositiveStep = errors.New("driver: step size must be positive")

// AdvanceN calls s.Step exactly n times. No correction is applied.
func AdvanceN(s eom.Stepper, t *float64, x, v eom.Vector, dt float64, n int) {
	for i := 0; i < n; i++ {
		s.Step(t, x, v, dt)
	}
}

// AdvanceUntil steps while *t < until and applies e's correction, if any,
// after every step. It returns the number of steps taken.
//
// The step size is never shrunk at the boundary: when dt does not divide
// the remaining interval the last step overshoots until.
func AdvanceUntil(s eom.Stepper, e eom.EquationOfMotion, t *float64, x, v eom.Vector, dt, until float64) int {
	if dt <= 0 && *t < until {
		panic(fmt.Errorf("AdvanceUntil to t=%g with dt=%g: %w", until, dt, ErrNonPositiveStep))
	}
	c, hasCorrection := e.(eom.Corrector)

	steps := 0
	for *t < until {
		s.Step(t, x, v, dt)
		if hasCorrection {
			c.Correct(*t, x, v)
		}
		steps++
	}
	return steps
}
