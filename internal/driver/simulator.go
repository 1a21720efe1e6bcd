package driver

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/eomsim/internal/eom"
	"github.com/san-kum/eomsim/internal/log"
)

// Simulator records a trajectory by driving a stepper between sample
// instants with AdvanceUntil.
type Simulator struct {
	model     eom.EquationOfMotion
	stepper   eom.Stepper
	metrics   []Metric
	observers []Observer
}

func New(model eom.EquationOfMotion, stepper eom.Stepper) *Simulator {
	return &Simulator{
		model:     model,
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, x0, v0 eom.Vector, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	eom.MustMatch("initial position", s.stepper.Dim(), x0)
	eom.MustMatch("initial velocity", s.stepper.Dim(), v0)

	interval := cfg.SampleEvery
	if interval == 0 {
		interval = cfg.Dt
	}
	samples := int(math.Ceil(cfg.Duration / interval))
	result := &Result{
		Samples: make([]Sample, 0, samples+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x, v := x0.Clone(), v0.Clone()
	t := cfg.Start
	end := cfg.Start + cfg.Duration

	log.Debug("simulation start: t=%g end=%g dt=%g dim=%d", t, end, cfg.Dt, len(x))

	initialEnergy, _ := eom.Energy(s.model, x, v)
	s.record(result, t, x, v)

	for t < end {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		next := math.Min(t+interval, end)
		result.Steps += AdvanceUntil(s.stepper, s.model, &t, x, v, cfg.Dt, next)

		if cfg.ValidateState && !(x.IsFinite() && v.IsFinite()) {
			err := SimError{Time: t, Step: result.Steps, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			log.Warn("%v", err)
			break
		}

		s.record(result, t, x, v)
	}

	if initialEnergy != 0 {
		result.EnergyDrift = finalDrift(result.Samples, initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	log.Debug("simulation done: steps=%d samples=%d", result.Steps, len(result.Samples))
	return result, nil
}

func (s *Simulator) record(result *Result, t float64, x, v eom.Vector) {
	energy, _ := eom.Energy(s.model, x, v)
	sample := Sample{T: t, X: x.Clone(), V: v.Clone(), Energy: energy}
	result.Samples = append(result.Samples, sample)

	for _, m := range s.metrics {
		m.Observe(t, x, v)
	}
	for _, obs := range s.observers {
		obs.OnSample(sample)
	}
}

// finalDrift is the relative energy drift of the latest recorded sample
// for which it is finite. A run stopped by ValidateState never records its
// non-finite state, but the energy may overflow before the state does.
func finalDrift(samples []Sample, initial float64) float64 {
	for i := len(samples) - 1; i >= 0; i-- {
		drift := math.Abs(samples[i].Energy-initial) / math.Abs(initial)
		if !math.IsNaN(drift) && !math.IsInf(drift, 0) {
			return drift
		}
	}
	return 0
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("sample interval must not be negative, got %f", cfg.SampleEvery)
	}
	if cfg.SampleEvery != 0 && cfg.SampleEvery < cfg.Dt {
		return fmt.Errorf("sample interval %f is shorter than dt %f", cfg.SampleEvery, cfg.Dt)
	}
	return nil
}
