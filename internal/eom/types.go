package eom

import "math"

// Vector is a position, velocity or acceleration buffer.
//
// For a dimension known at compile time, slice an array to keep the
// backing store on the stack:
//
//	var xs [2]float64
//	x := Vector(xs[:])
type Vector []float64

// NewVector returns a zeroed vector of dimension n.
func NewVector(n int) Vector {
	return make(Vector, n)
}

// Dim is the number of coordinates.
func (v Vector) Dim() int { return len(v) }

// Clone returns a copy that shares no storage with v.
func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

// IsFinite reports whether no element is NaN or infinite.
func (v Vector) IsFinite() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Scale multiplies v by s in place.
func (v Vector) Scale(s float64) {
	for i := range v {
		v[i] *= s
	}
}

func (v Vector) Norm2() float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return sum
}

func (v Vector) Norm() float64 {
	return math.Sqrt(v.Norm2())
}

func Dot(a, b Vector) float64 {
	MustMatch("dot operand", len(a), b)
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// DiffNorm returns |a - b|.
func DiffNorm(a, b Vector) float64 {
	MustMatch("diff operand", len(a), b)
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// AddScaled sets dst = a + b*s elementwise. dst may alias a.
func AddScaled(dst, a, b Vector, s float64) {
	for i := range dst {
		dst[i] = a[i] + b[i]*s
	}
}

// EquationOfMotion computes the second derivative of position.
//
// Acceleration must write len(x) values into a and be deterministic for a
// given input. Implementations may keep a private cache (e.g. a matrix
// refreshed per call) but must not depend on which stage calls them.
type EquationOfMotion interface {
	Acceleration(t float64, x, v, a Vector)
}

// Corrector re-imposes a model constraint after an accepted step.
// Correct must be idempotent on a state that already satisfies it.
type Corrector interface {
	Correct(t float64, x, v Vector)
}

// Dimensioned models report their fixed state dimension.
type Dimensioned interface {
	Dim() int
}

type Energetic interface {
	Energy(x, v Vector) float64
}

// Stepper advances (t, x, v) by one step of size dt in place.
type Stepper interface {
	Step(t *float64, x, v Vector, dt float64)
	Dim() int
}

// Correct applies e's constraint projection if it has one.
func Correct(e EquationOfMotion, t float64, x, v Vector) {
	if c, ok := e.(Corrector); ok {
		c.Correct(t, x, v)
	}
}

// Energy returns e's energy, or 0 and false if e does not define one.
func Energy(e EquationOfMotion, x, v Vector) (float64, bool) {
	if h, ok := e.(Energetic); ok {
		return h.Energy(x, v), true
	}
	return 0, false
}
