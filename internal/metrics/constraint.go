package metrics

import (
	"math"

	"github.com/san-kum/eomsim/internal/eom"
)

// ConstraintError is the largest observed | |x| - radius |, for models
// whose position lives on a sphere.
type ConstraintError struct {
	radius   float64
	maxError float64
}

func NewConstraintError(radius float64) *ConstraintError {
	return &ConstraintError{radius: radius}
}

func (c *ConstraintError) Name() string { return "constraint_error" }

func (c *ConstraintError) Observe(t float64, x, v eom.Vector) {
	c.maxError = math.Max(c.maxError, math.Abs(x.Norm()-c.radius))
}

func (c *ConstraintError) Value() float64 { return c.maxError }

func (c *ConstraintError) Reset() { c.maxError = 0 }
