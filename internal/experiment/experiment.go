package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/eomsim/internal/config"
	"github.com/san-kum/eomsim/internal/driver"
	"github.com/san-kum/eomsim/internal/eom"
)

type Experiment struct {
	cfg       *config.Config
	instance  *Instance
	stepper   eom.Stepper
	simulator *driver.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup validates the config and builds model, stepper and simulator.
// An initial state in the config replaces the model's default.
func (e *Experiment) Setup(r *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	inst, err := r.GetModel(e.cfg.Model, e.cfg.Params)
	if err != nil {
		return err
	}
	if len(e.cfg.Init.X) > 0 {
		if d, ok := inst.Model.(eom.Dimensioned); ok && d.Dim() != len(e.cfg.Init.X) {
			return fmt.Errorf("%s expects %d coordinates, init has %d: %w",
				e.cfg.Model, d.Dim(), len(e.cfg.Init.X), eom.ErrDimensionMismatch)
		}
		inst.X = eom.Vector(e.cfg.Init.X).Clone()
		inst.V = eom.Vector(e.cfg.Init.V).Clone()
	}

	stepper, err := r.GetIntegrator(e.cfg.Integrator, inst.Model, inst.X)
	if err != nil {
		return err
	}

	e.instance = inst
	e.stepper = stepper
	e.simulator = driver.New(inst.Model, stepper)
	for _, m := range r.DefaultMetrics(inst.Model) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*driver.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	return e.simulator.Run(ctx, e.instance.X, e.instance.V, driver.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		SampleEvery:   e.cfg.SampleEvery,
		ValidateState: true,
	})
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *driver.Simulator {
	return e.simulator
}

func (e *Experiment) Instance() *Instance {
	return e.instance
}

func (e *Experiment) Stepper() eom.Stepper {
	return e.stepper
}
