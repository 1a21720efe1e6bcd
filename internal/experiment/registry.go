package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/eomsim/internal/driver"
	"github.com/san-kum/eomsim/internal/eom"
	"github.com/san-kum/eomsim/internal/integrators"
	"github.com/san-kum/eomsim/internal/metrics"
	"github.com/san-kum/eomsim/internal/models"
)

// Instance is a built model together with its default initial state.
type Instance struct {
	Model eom.EquationOfMotion
	X, V  eom.Vector
}

// ModelFactory builds a model from named parameters. Missing parameters
// take the model's defaults.
type ModelFactory func(params map[string]float64) (*Instance, error)

type Registry struct {
	models map[string]ModelFactory
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]ModelFactory)}

	r.models["oscillator"] = func(p map[string]float64) (*Instance, error) {
		k := param(p, "k", models.DefaultStiffness)
		m := param(p, "m", models.DefaultMass)
		if m <= 0 {
			return nil, fmt.Errorf("oscillator mass must be positive, got %g", m)
		}
		return &Instance{
			Model: models.NewOscillator(k, m),
			X:     eom.Vector{param(p, "x0", 1)},
			V:     eom.Vector{param(p, "v0", 0)},
		}, nil
	}

	r.models["forced_oscillator"] = func(p map[string]float64) (*Instance, error) {
		f := models.DefaultForcedOscillator()
		x, v := f.InitState()
		return &Instance{Model: f, X: x, V: v}, nil
	}

	r.models["pendulum"] = func(p map[string]float64) (*Instance, error) {
		g := param(p, "g", models.DefaultGravity)
		length := param(p, "length", 1)
		if g <= 0 || length <= 0 {
			return nil, fmt.Errorf("pendulum needs positive g and length, got g=%g length=%g", g, length)
		}
		pend := models.NewPendulum(eom.Vector{0, -g}, length)
		x, v := pend.StateAt(param(p, "theta", math.Pi/3))
		return &Instance{Model: pend, X: x, V: v}, nil
	}

	r.models["double_pendulum"] = func(p map[string]float64) (*Instance, error) {
		return &Instance{
			Model: models.NewDoublePendulum(param(p, "g", models.DefaultGravity)),
			X:     eom.Vector{param(p, "theta1", 2), param(p, "theta2", 2)},
			V:     eom.NewVector(2),
		}, nil
	}

	r.models["spring_chain"] = func(p map[string]float64) (*Instance, error) {
		n := int(param(p, "n", 3))
		if n < 1 {
			return nil, fmt.Errorf("spring chain needs at least one mass, got %d", n)
		}
		chain := models.NewSpringChain(n)
		damping := param(p, "damping", models.DefaultDamping)
		stiffness := param(p, "k", models.DefaultStiffness)
		for i := range chain.Damping {
			chain.Damping[i] = damping
		}
		for i := range chain.Stiffness {
			chain.Stiffness[i] = stiffness
		}
		x := eom.NewVector(n)
		x[0] = 1
		return &Instance{Model: chain, X: x, V: eom.NewVector(n)}, nil
	}

	return r
}

func param(p map[string]float64, name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// Register adds or replaces a model factory.
func (r *Registry) Register(name string, factory ModelFactory) {
	r.models[name] = factory
}

func (r *Registry) GetModel(name string, params map[string]float64) (*Instance, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(params)
}

func (r *Registry) GetIntegrator(name string, e eom.EquationOfMotion, sample eom.Vector) (eom.Stepper, error) {
	return integrators.New(name, e, sample)
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListIntegrators() []string {
	return append([]string(nil), integrators.Names...)
}

// DefaultMetrics returns the metrics that make sense for model.
func (r *Registry) DefaultMetrics(model eom.EquationOfMotion) []driver.Metric {
	ms := []driver.Metric{metrics.NewStability(1e6)}
	if _, ok := model.(eom.Energetic); ok {
		ms = append(ms, metrics.NewEnergyDrift(model))
	}
	if _, ok := model.(*models.Pendulum); ok {
		ms = append(ms, metrics.NewConstraintError(1))
	}
	return ms
}
