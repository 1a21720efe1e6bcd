package eom

import (
	"errors"
	"math"
	"testing"
)

func TestVector_IsFinite(t *testing.T) {
	tests := []struct {
		name  string
		v     Vector
		valid bool
	}{
		{"empty", Vector{}, true},
		{"normal", Vector{1.0, 2.0, 3.0}, true},
		{"with NaN", Vector{1.0, math.NaN()}, false},
		{"with +Inf", Vector{1.0, math.Inf(1)}, false},
		{"with -Inf", Vector{math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFinite(); got != tt.valid {
				t.Errorf("IsFinite() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestVector_Norm(t *testing.T) {
	tests := []struct {
		v        Vector
		expected float64
	}{
		{Vector{3, 4}, 5.0},
		{Vector{1, 0}, 1.0},
		{Vector{0, 0}, 0.0},
		{Vector{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.v.Norm(); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Norm(%v) = %v, want %v", tt.v, got, tt.expected)
		}
	}
}

func TestVector_Arithmetic(t *testing.T) {
	a := Vector{1, 2, 3}
	b := Vector{4, 5, 6}

	if d := Dot(a, b); d != 32 {
		t.Errorf("Dot = %v, want 32", d)
	}

	dst := NewVector(3)
	AddScaled(dst, a, b, 0.5)
	if dst[0] != 3 || dst[1] != 4.5 || dst[2] != 6 {
		t.Errorf("AddScaled failed: got %v", dst)
	}

	c := a.Clone()
	c.Scale(2)
	if c[0] != 2 || c[2] != 6 || a[0] != 1 {
		t.Errorf("Clone/Scale failed: got %v from %v", c, a)
	}

	if got := DiffNorm(Vector{1, 1}, Vector{4, 5}); got != 5 {
		t.Errorf("DiffNorm = %v, want 5", got)
	}
}

func TestMustMatchPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %T is not an error", r)
		}
		if !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("expected ErrDimensionMismatch, got %v", err)
		}
		var de *DimensionError
		if !errors.As(err, &de) || de.Buffer != "x" || de.Want != 2 || de.Got != 3 {
			t.Errorf("unexpected diagnostic: %v", err)
		}
	}()
	MustMatch("x", 2, Vector{1, 2, 3})
}

func TestDimensionError_Message(t *testing.T) {
	err := &DimensionError{Buffer: "v", Want: 4, Got: 2}
	expected := "eom: dimension mismatch: v has length 2, want 4"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

type projector struct{ calls int }

func (p *projector) Acceleration(t float64, x, v, a Vector) {}
func (p *projector) Correct(t float64, x, v Vector)         { p.calls++ }

type plain struct{}

func (plain) Acceleration(t float64, x, v, a Vector) {}

func TestCorrectDispatch(t *testing.T) {
	p := &projector{}
	Correct(p, 0, Vector{1}, Vector{0})
	if p.calls != 1 {
		t.Errorf("expected Correct to be called once, got %d", p.calls)
	}

	// no-op default must not panic
	Correct(plain{}, 0, Vector{1}, Vector{0})

	if _, ok := Energy(plain{}, Vector{1}, Vector{0}); ok {
		t.Error("plain model should not report energy")
	}
}
