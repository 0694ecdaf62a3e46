package ensure

// Ensurable is anything that can check its own state and converge to a
// target state on demand. Ensure returns the unified result: the witness
// value when the state already held, the action's result when convergence
// ran, or an error from whichever of the two failed. Implementations take no
// parameters; anything the entity needs it must capture itself.
type Ensurable[T any] interface {
	Ensure() (T, error)
}

// CheckFunc adapts a zero-argument check closure into an Ensurable. The
// closure must be read-only: it observes current state and either reports it
// met with a witness, reports it unmet with the action that will perform the
// convergence, or fails outright when it cannot determine state at all.
type CheckFunc[T any] func() (Outcome[T], error)

var _ Ensurable[struct{}] = (CheckFunc[struct{}])(nil)

// Ensure runs the check exactly once. A check error is returned immediately
// and no action is constructed or run. A met outcome yields its witness. An
// unmet outcome has its action invoked exactly once, and the action's result
// and error are returned verbatim.
//
// No atomicity is guaranteed between the check and the action; the external
// state being converged is not owned or locked by this package.
func (f CheckFunc[T]) Ensure() (T, error) {
	outcome, err := f()
	if err != nil {
		var zero T
		return zero, err
	}
	if outcome.met {
		return outcome.witness, nil
	}
	if outcome.action == nil {
		var zero T
		return zero, ErrNoAction
	}
	return outcome.action()
}

// Ensure drives any Ensurable and returns its unified result unchanged. It
// exists so callers holding a bare check closure need not spell out the
// CheckFunc conversion at every call site:
//
//	created, err := ensure.Ensure(ensure.CheckFunc[bool](probe))
func Ensure[T any](e Ensurable[T]) (T, error) {
	return e.Ensure()
}

// Must is the non-fallible specialization: it panics when ensure fails. Use
// it when a convergence failure is unrecoverable by construction, in the
// manner of template.Must:
//
//	witness := ensure.Must(ensure.Ensure(check))
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
