package metrics

import (
	"math"

	"github.com/san-kum/eomsim/internal/eom"
)

// Stability is the fraction of observations whose position and velocity
// stay finite and within threshold in every component.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(t float64, x, v eom.Vector) {
	s.samples++
	if !s.within(x) || !s.within(v) {
		s.violations++
	}
}

func (s *Stability) within(vec eom.Vector) bool {
	for _, val := range vec {
		if math.IsNaN(val) || math.Abs(val) > s.threshold {
			return false
		}
	}
	return true
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
