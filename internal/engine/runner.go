package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/alexisbeaulieu97/converge/internal/config"
	"github.com/alexisbeaulieu97/converge/internal/logger"
	"github.com/alexisbeaulieu97/converge/internal/model"
	"github.com/alexisbeaulieu97/converge/internal/resource"
	"github.com/alexisbeaulieu97/converge/pkg/ensure"
)

// Mode selects whether the runner converges resources or only reports.
type Mode int

const (
	// ModeApply converges every unmet resource.
	ModeApply Mode = iota
	// ModeCheck evaluates checks only; convergence actions never run.
	ModeCheck
)

// Hooks let the caller observe per-resource progress. Either hook may be nil.
type Hooks struct {
	OnStart  func(resourceID string)
	OnResult func(model.ResourceResult)
}

// Runner drives every enabled manifest resource through a single ensure
// pass, one resource at a time in manifest order.
type Runner struct {
	registry *resource.Registry
	logger   *logger.Logger
}

// NewRunner creates a runner over the given resource registry.
func NewRunner(registry *resource.Registry, log *logger.Logger) *Runner {
	return &Runner{registry: registry, logger: log}
}

// Run executes the manifest and returns a summary of every resource outcome.
// A failed resource stops the run unless continue_on_error is set; the first
// failure is returned alongside the summary either way. In ModeCheck an
// unmet resource is recorded as would_converge and does not stop the run.
func (r *Runner) Run(ctx context.Context, manifest *config.Manifest, mode Mode, hooks Hooks) (*model.RunSummary, error) {
	if manifest == nil {
		return nil, fmt.Errorf("manifest is nil")
	}

	timeout := time.Duration(manifest.Settings.Timeout) * time.Second
	summary := &model.RunSummary{}
	start := time.Now()

	var firstErr error
	for i := range manifest.Resources {
		res := &manifest.Resources[i]
		if !res.Enabled {
			continue
		}

		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			if firstErr == nil {
				firstErr = err
			}
			return summary, firstErr
		}

		if hooks.OnStart != nil {
			hooks.OnStart(res.ID)
		}

		result, err := r.runResource(ctx, res, mode, timeout)
		summary.Add(result)
		if hooks.OnResult != nil {
			hooks.OnResult(result)
		}

		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if !manifest.Settings.ContinueOnError {
				break
			}
		}
	}

	summary.Duration = time.Since(start)
	return summary, firstErr
}

func (r *Runner) runResource(ctx context.Context, res *config.Resource, mode Mode, timeout time.Duration) (model.ResourceResult, error) {
	resCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		resCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	log := r.logger.With(map[string]any{"resource": res.ID, "type": res.Type})
	start := time.Now()

	factory, err := r.registry.Get(res.Type)
	if err != nil {
		log.Error(err, "no factory for resource type")
		return failedResult(res.ID, start, err), err
	}

	check, err := factory(resCtx, res)
	if err != nil {
		log.Error(err, "resource configuration rejected")
		return failedResult(res.ID, start, err), err
	}

	var result *model.ResourceResult
	if mode == ModeCheck {
		result, err = evaluateOnly(res.ID, check)
	} else {
		result, err = ensure.Ensure(check)
	}

	if result == nil {
		result = &model.ResourceResult{ResourceID: res.ID}
	}
	if result.ResourceID == "" {
		result.ResourceID = res.ID
	}
	result.Duration = time.Since(start)
	if result.Timestamp.IsZero() {
		result.Timestamp = time.Now()
	}

	if err != nil {
		if result.Status == "" {
			result.Status = model.StatusFailed
		}
		if result.Error == nil {
			result.Error = err
		}
		if result.Message == "" {
			result.Message = err.Error()
		}
		log.Error(err, "resource failed")
		return *result, err
	}

	log.With(map[string]any{"status": result.Status}).Debug(result.Message)
	return *result, nil
}

// evaluateOnly runs the check without ever touching the convergence action.
func evaluateOnly(id string, check resource.Check) (*model.ResourceResult, error) {
	outcome, err := check()
	if err != nil {
		return nil, err
	}
	if outcome.IsMet() {
		return outcome.Witness(), nil
	}
	return &model.ResourceResult{
		ResourceID: id,
		Status:     model.StatusWouldConverge,
		Message:    "state not met, convergence required",
	}, nil
}

func failedResult(id string, start time.Time, err error) model.ResourceResult {
	return model.ResourceResult{
		ResourceID: id,
		Status:     model.StatusFailed,
		Message:    err.Error(),
		Error:      err,
		Duration:   time.Since(start),
		Timestamp:  time.Now(),
	}
}
