// Package haltflow models the relayer's three-way pipeline outcome: a
// stage either proceeds with a value, halts cleanly (no error, nothing
// left to do), or fails with a hard error that should propagate.
package haltflow

import "errors"

// ErrHalted is the sentinel wrapped errors.Is compares against when a
// caller at a Go-idiomatic boundary wants the halt to look like an error.
var ErrHalted = errors.New("haltflow: halted")

type kind int

const (
	kindProceed kind = iota
	kindHalt
	kindErr
)

// Outcome is the result of a pipeline stage: exactly one of a value, a
// clean halt, or an error.
type Outcome[T any] struct {
	kind  kind
	value T
	err   error
}

// Proceed wraps a successful value.
func Proceed[T any](v T) Outcome[T] {
	return Outcome[T]{kind: kindProceed, value: v}
}

// Halt signals a clean, non-error termination of the pipeline.
func Halt[T any]() Outcome[T] {
	return Outcome[T]{kind: kindHalt}
}

// Fail wraps a hard error that should propagate up the stack.
func Fail[T any](err error) Outcome[T] {
	return Outcome[T]{kind: kindErr, err: err}
}

// IsHalt reports whether the outcome is a clean halt.
func (o Outcome[T]) IsHalt() bool { return o.kind == kindHalt }

// IsErr reports whether the outcome is a hard error.
func (o Outcome[T]) IsErr() bool { return o.kind == kindErr }

// Unwrap collapses the outcome into the conventional (T, error) shape
// expected at a Go boundary (e.g. cmd/relay's main). A clean halt is
// reported as ErrHalted so callers can distinguish it with errors.Is,
// while still treating it as "stop, don't panic."
func (o Outcome[T]) Unwrap() (T, error) {
	switch o.kind {
	case kindProceed:
		return o.value, nil
	case kindHalt:
		var zero T
		return zero, ErrHalted
	default:
		var zero T
		return zero, o.err
	}
}

// Value returns the wrapped value and true if the outcome proceeded.
func (o Outcome[T]) Value() (T, bool) {
	if o.kind == kindProceed {
		return o.value, true
	}
	var zero T
	return zero, false
}

// Err returns the wrapped error, if any.
func (o Outcome[T]) Err() error {
	if o.kind == kindErr {
		return o.err
	}
	return nil
}
