package driver

import (
	"fmt"

	"github.com/san-kum/eomsim/internal/eom"
)

// Metric accumulates a scalar over the recorded samples of a run.
type Metric interface {
	Name() string
	Observe(t float64, x, v eom.Vector)
	Value() float64
	Reset()
}

// Observer is called with every recorded sample.
type Observer interface {
	OnSample(s Sample)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s Sample)

func (f ObserverFunc) OnSample(s Sample) { f(s) }

// Config controls one Simulator run.
type Config struct {
	Dt          float64
	Duration    float64
	Start       float64
	SampleEvery float64 // simulated time between recorded samples; 0 records every step
	// ValidateState stops the run at the first sample holding NaN or Inf.
	ValidateState bool
}

// DefaultConfig samples at 128 Hz with a 1/1024 step for 10 time units.
func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 1024,
		Duration:      10.0,
		SampleEvery:   1.0 / 128,
		ValidateState: true,
	}
}

// Sample is a copy of the state at one recorded instant.
type Sample struct {
	T      float64
	X, V   eom.Vector
	Energy float64
}

// Result is the outcome of a run. Errors holds the SimError that stopped
// it early, if any.
type Result struct {
	Samples     []Sample
	Metrics     map[string]float64
	EnergyDrift float64
	Steps       int
	Errors      []error
}

// SimError describes where and why a run stopped.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
