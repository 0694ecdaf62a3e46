// Package ensure provides a minimal idempotent-convergence primitive: probe
// whether a target state already holds and, only when it does not, run the
// single action needed to reach it. The check runs exactly once per Ensure
// call and the convergence action runs at most once, never before the check.
//
// The package owns no state and spawns no goroutines; both the check and the
// action execute synchronously on the caller's goroutine. Anything a closure
// needs, including a context.Context, it captures itself.
package ensure

import "errors"

// ErrNoAction is returned when an unmet outcome carries no convergence
// action. It only occurs for zero-value or hand-built Outcomes; values
// produced by Met and Unmet never trigger it.
var ErrNoAction = errors.New("ensure: unmet outcome carries no action")

// Outcome is the result of a single state check. It is in exactly one of two
// shapes: met, carrying the witness value the check observed, or unmet,
// carrying the deferred convergence action. Producers build it with Met or
// Unmet; the action payload is deliberately unexported so only the driver
// can invoke it.
//
// An Outcome is created fresh by each check invocation, consumed immediately
// by the driver, and discarded. It carries no identity beyond a single call.
type Outcome[T any] struct {
	met     bool
	witness T
	action  func() (T, error)
}

// Met reports that the target state already holds. The witness is whatever
// the check observed; Ensure returns it unchanged without constructing or
// running any action.
func Met[T any](witness T) Outcome[T] {
	return Outcome[T]{met: true, witness: witness}
}

// Unmet reports that the target state does not hold. The action performs the
// convergence and produces the result Ensure returns. It is invoked at most
// once, only by the driver, never by the producer.
func Unmet[T any](action func() (T, error)) Outcome[T] {
	return Outcome[T]{action: action}
}

// IsMet reports whether the check found the target state already satisfied.
func (o Outcome[T]) IsMet() bool {
	return o.met
}

// Witness returns the value observed by a met check, or the zero value for
// unmet outcomes.
func (o Outcome[T]) Witness() T {
	return o.witness
}
