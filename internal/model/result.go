package model

import (
	"time"
)

const (
	// StatusSatisfied indicates the check found the target state already met.
	StatusSatisfied = "satisfied"
	// StatusConverged indicates the convergence action ran and succeeded.
	StatusConverged = "converged"
	// StatusWouldConverge indicates check-only mode found an unmet state.
	StatusWouldConverge = "would_converge"
	// StatusFailed marks a failed check or convergence action.
	StatusFailed = "failed"
	// StatusPending indicates a resource has not been evaluated yet.
	StatusPending = "pending"
	// StatusRunning indicates a resource is being evaluated or converged.
	StatusRunning = "running"
)

// ResourceResult captures the unified outcome of ensuring a single resource:
// the satisfied witness, the convergence result, or the failure.
type ResourceResult struct {
	ResourceID string
	Status     string
	Message    string
	Error      error
	Duration   time.Duration
	Timestamp  time.Time
}

// RunSummary aggregates resource results across a manifest run.
type RunSummary struct {
	Total     int
	Satisfied int
	Converged int
	Unmet     int
	Failed    int
	Duration  time.Duration
	Results   []ResourceResult
}

// Add records a result and updates the tallies.
func (s *RunSummary) Add(res ResourceResult) {
	s.Total++
	s.Results = append(s.Results, res)

	switch res.Status {
	case StatusSatisfied:
		s.Satisfied++
	case StatusConverged:
		s.Converged++
	case StatusWouldConverge:
		s.Unmet++
	case StatusFailed:
		s.Failed++
	}
}

// OK reports whether every resource ended satisfied or converged.
func (s *RunSummary) OK() bool {
	return s.Failed == 0 && s.Unmet == 0
}
