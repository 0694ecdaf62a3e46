package ensure

// AssumeMet returns a check that skips probing entirely and reports the
// target state as already met with the given witness. It is for callers that
// have established the state out of band and want to feed that knowledge into
// code written against Ensurable.
func AssumeMet[T any](witness T) CheckFunc[T] {
	return func() (Outcome[T], error) {
		return Met(witness), nil
	}
}

// AssumeUnmet returns a check that skips probing entirely and reports the
// target state as unmet, so Ensure always runs the given action. It turns a
// bare convergence action into an Ensurable.
func AssumeUnmet[T any](action func() (T, error)) CheckFunc[T] {
	return func() (Outcome[T], error) {
		return Unmet(action), nil
	}
}
