// Package eom provides the core contracts for integrating second-order
// equations of motion.
//
// State is split into a position vector x and a velocity vector v of the
// same fixed dimension. A model implements:
//
//   - [EquationOfMotion]: acceleration a = f(t, x, v)
//   - [Corrector] (optional): post-step constraint projection
//   - [Energetic] (optional): total energy, used by metrics
//
// Numerical schemes implement [Stepper] and live in the integrators
// package; the driver package advances a stepper for a step count or up
// to a target time.
//
// # Example
//
//	osc := models.NewOscillator(4, 1)
//	x, v := eom.Vector{1}, eom.Vector{0}
//	rk := integrators.NewRK4(osc, x)
//	t := 0.0
//	driver.AdvanceN(rk, &t, x, v, 1.0/1024, 1024)
//
// # Limitations
//
// Steppers do not check for NaN or Inf. A singular model configuration
// propagates non-finite values silently; use [Vector.IsFinite] when that
// matters.
//
// # Thread Safety
//
// Steppers own their scratch buffers and are NOT safe for concurrent use.
// Independent stepper/model pairs may run on separate goroutines.
package eom
