package eom

import (
	"errors"
	"fmt"
)

// ErrDimensionMismatch indicates a state buffer whose length differs from
// the dimension a stepper or model was built for.
var ErrDimensionMismatch = errors.New("eom: dimension mismatch")

// DimensionError is the panic value raised by [MustMatch]. It names the
// offending buffer so the diagnostic points at the caller's mistake.
type DimensionError struct {
	Buffer string
	Want   int
	Got    int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%v: %s has length %d, want %d", ErrDimensionMismatch, e.Buffer, e.Got, e.Want)
}

func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

// MustMatch panics with a *DimensionError if len(got) != want.
// A mismatch is a programming error; buffers are never truncated or padded.
func MustMatch(buffer string, want int, got Vector) {
	if len(got) != want {
		panic(&DimensionError{Buffer: buffer, Want: want, Got: len(got)})
	}
}
