package driver_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/eomsim/internal/driver"
	"github.com/san-kum/eomsim/internal/eom"
	"github.com/san-kum/eomsim/internal/integrators"
	"github.com/san-kum/eomsim/internal/models"
)

// countingStepper records calls and advances time only.
type countingStepper struct {
	n     int
	calls int
}

func (c *countingStepper) Dim() int { return c.n }
func (c *countingStepper) Step(t *float64, x, v eom.Vector, dt float64) {
	c.calls++
	*t += dt
}

type countingCorrector struct {
	corrections int
}

func (c *countingCorrector) Acceleration(t float64, x, v, a eom.Vector) {}
func (c *countingCorrector) Correct(t float64, x, v eom.Vector)         { c.corrections++ }

var _ = Describe("AdvanceN", func() {
	It("calls Step exactly n times and accumulates time", func() {
		s := &countingStepper{n: 1}
		t := 0.5
		driver.AdvanceN(s, &t, eom.Vector{0}, eom.Vector{0}, 0.25, 7)
		Expect(s.calls).To(Equal(7))
		Expect(t).To(Equal(0.5 + 7*0.25))
	})

	It("does nothing for n = 0", func() {
		s := &countingStepper{n: 1}
		t := 1.0
		driver.AdvanceN(s, &t, eom.Vector{0}, eom.Vector{0}, 0.25, 0)
		Expect(s.calls).To(BeZero())
		Expect(t).To(Equal(1.0))
	})

	It("does not apply the correction hook", func() {
		p := models.NewPendulum(eom.Vector{0, -9.81}, 1)
		x, v := eom.Vector{2, 0}, eom.Vector{0, 0}
		rk := integrators.NewRK4(p, x)
		t := 0.0
		driver.AdvanceN(rk, &t, x, v, 1.0/1024, 4)
		Expect(x.Norm()).NotTo(BeNumerically("~", 1.0, 1e-3))
	})

	It("lands on t0 + n*dt for dyadic steps", func() {
		osc := models.NewOscillator(4, 1)
		x, v := eom.Vector{1}, eom.Vector{0}
		rk := integrators.NewRK4(osc, x)
		t := 0.0
		driver.AdvanceN(rk, &t, x, v, math.Pow(2, -10), 10000)
		Expect(t).To(Equal(10000 * math.Pow(2, -10)))
	})
})

var _ = Describe("AdvanceUntil", func() {
	It("stops as soon as t reaches the target", func() {
		s := &countingStepper{n: 1}
		t := 0.0
		steps := driver.AdvanceUntil(s, &countingCorrector{}, &t, eom.Vector{0}, eom.Vector{0}, 0.25, 1.0)
		Expect(steps).To(Equal(4))
		Expect(t).To(Equal(1.0))
	})

	It("accepts overshoot when dt does not divide the interval", func() {
		s := &countingStepper{n: 1}
		t := 0.0
		steps := driver.AdvanceUntil(s, &countingCorrector{}, &t, eom.Vector{0}, eom.Vector{0}, 0.375, 1.0)
		Expect(steps).To(Equal(3))
		Expect(t).To(Equal(1.125))
		Expect(t).To(BeNumerically(">=", 1.0))
	})

	It("takes no step when already past the target", func() {
		s := &countingStepper{n: 1}
		t := 2.0
		steps := driver.AdvanceUntil(s, &countingCorrector{}, &t, eom.Vector{0}, eom.Vector{0}, 0.1, 1.0)
		Expect(steps).To(BeZero())
		Expect(s.calls).To(BeZero())
	})

	It("corrects once after every step", func() {
		s := &countingStepper{n: 1}
		c := &countingCorrector{}
		t := 0.0
		driver.AdvanceUntil(s, c, &t, eom.Vector{0}, eom.Vector{0}, 0.125, 1.0)
		Expect(c.corrections).To(Equal(8))
	})

	It("keeps a pendulum on its constraint", func() {
		p := models.NewPendulum(eom.Vector{0, -9.8}, 0.5)
		x, v := p.StateAt(math.Pi / 3)
		rk := integrators.NewRK4(p, x)
		t := 0.0
		driver.AdvanceUntil(rk, p, &t, x, v, 1.0/1024, 10)
		Expect(t).To(BeNumerically(">=", 10.0))
		Expect(x.Norm()).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("panics with ErrNonPositiveStep on a non-positive step", func() {
		s := &countingStepper{n: 1}
		t := 0.0
		Expect(func() {
			driver.AdvanceUntil(s, &countingCorrector{}, &t, eom.Vector{0}, eom.Vector{0}, 0, 1.0)
		}).To(PanicWith(MatchError(driver.ErrNonPositiveStep)))
		Expect(func() {
			driver.AdvanceUntil(s, &countingCorrector{}, &t, eom.Vector{0}, eom.Vector{0}, -0.125, 1.0)
		}).To(PanicWith(MatchError(driver.ErrNonPositiveStep)))
	})
})
