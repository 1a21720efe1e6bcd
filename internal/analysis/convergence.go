package analysis

import (
	"math"

	"github.com/san-kum/eomsim/internal/driver"
	"github.com/san-kum/eomsim/internal/eom"
)

// Problem is an equation of motion with a known solution.
type Problem struct {
	Model eom.EquationOfMotion
	Init  func() (x, v eom.Vector)
	Exact func(t float64) eom.Vector
}

// StepperFactory builds a stepper for a model, sized from sample.
type StepperFactory func(e eom.EquationOfMotion, sample eom.Vector) eom.Stepper

type ConvergenceOptions struct {
	MinExp      int // finest step is 2^-(MaxExp-1)
	MaxExp      int
	Checkpoints int // global error is measured at t = 1, 2, ..., Checkpoints
}

// Study holds the global position error for every checkpoint and step.
// Errors[j][i] is the error at t = j+1 with step Dts[i].
type Study struct {
	Dts    []float64
	Times  []float64
	Errors [][]float64
}

// Convergence integrates p with dt = 2^-i for i in [MinExp, MaxExp) and
// records |x - exact| at each checkpoint. Dyadic steps keep the
// checkpoints exact under float accumulation.
func Convergence(p Problem, factory StepperFactory, opts ConvergenceOptions) *Study {
	study := &Study{
		Times:  make([]float64, opts.Checkpoints),
		Errors: make([][]float64, opts.Checkpoints),
	}
	for j := range study.Times {
		study.Times[j] = float64(j + 1)
	}

	x0, _ := p.Init()
	stepper := factory(p.Model, x0)

	for i := opts.MinExp; i < opts.MaxExp; i++ {
		dt := math.Pow(2, -float64(i))
		study.Dts = append(study.Dts, dt)

		t := 0.0
		x, v := p.Init()
		for j := 0; j < opts.Checkpoints; j++ {
			driver.AdvanceN(stepper, &t, x, v, dt, 1<<i)
			study.Errors[j] = append(study.Errors[j], eom.DiffNorm(x, p.Exact(t)))
		}
	}
	return study
}

// Ratios returns err(dt)/err(dt/2) for each consecutive pair of steps.
func (s *Study) Ratios() [][]float64 {
	ratios := make([][]float64, len(s.Errors))
	for j, errs := range s.Errors {
		for i := 0; i+1 < len(errs); i++ {
			ratios[j] = append(ratios[j], errs[i]/errs[i+1])
		}
	}
	return ratios
}

// Orders returns log2 of Ratios, the observed order of accuracy.
func (s *Study) Orders() [][]float64 {
	ratios := s.Ratios()
	orders := make([][]float64, len(ratios))
	for j, row := range ratios {
		orders[j] = make([]float64, len(row))
		for i, r := range row {
			orders[j][i] = math.Log2(r)
		}
	}
	return orders
}

// MeanOrder averages Orders over every checkpoint and step pair.
func (s *Study) MeanOrder() float64 {
	sum, n := 0.0, 0
	for _, row := range s.Orders() {
		for _, o := range row {
			sum += o
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
