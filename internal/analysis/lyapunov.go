package analysis

import (
	"math"

	"github.com/san-kum/eomsim/internal/driver"
	"github.com/san-kum/eomsim/internal/eom"
)

type LyapunovOptions struct {
	Dt           float64
	Duration     float64
	Renorm       float64 // simulated time between renormalisations
	Perturbation float64 // initial offset applied to x[0]
}

// LyapunovExponent estimates the largest Lyapunov exponent of e from
// (x0, v0). A reference trajectory and a neighbour offset by Perturbation
// are advanced side by side; every Renorm time units the separation in
// (x, v) is logged and the neighbour pulled back to the initial distance.
// A positive value indicates chaos.
func LyapunovExponent(e eom.EquationOfMotion, factory StepperFactory, x0, v0 eom.Vector, opts LyapunovOptions) float64 {
	if opts.Dt <= 0 || opts.Duration <= 0 || opts.Perturbation <= 0 || x0.Dim() == 0 {
		return 0
	}
	renorm := math.Max(opts.Renorm, opts.Dt)

	x, v := x0.Clone(), v0.Clone()
	xp, vp := x0.Clone(), v0.Clone()
	xp[0] += opts.Perturbation
	d0 := opts.Perturbation

	ref := factory(e, x)
	near := factory(e, xp)

	t, tp := 0.0, 0.0
	sumLog := 0.0
	for t < opts.Duration {
		until := math.Min(t+renorm, opts.Duration)
		driver.AdvanceUntil(ref, e, &t, x, v, opts.Dt, until)
		driver.AdvanceUntil(near, e, &tp, xp, vp, opts.Dt, until)

		sep := math.Sqrt(separation2(x, xp) + separation2(v, vp))
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			break
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for i := range xp {
			xp[i] = x[i] + (xp[i]-x[i])*scale
			vp[i] = v[i] + (vp[i]-v[i])*scale
		}
	}

	if t == 0 {
		return 0
	}
	return sumLog / t
}

func separation2(a, b eom.Vector) float64 {
	d := eom.DiffNorm(a, b)
	return d * d
}
