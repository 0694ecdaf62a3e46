package commandresource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/alexisbeaulieu97/converge/internal/config"
	"github.com/alexisbeaulieu97/converge/internal/model"
	"github.com/alexisbeaulieu97/converge/internal/resource"
	converrors "github.com/alexisbeaulieu97/converge/pkg/errors"
	"github.com/alexisbeaulieu97/converge/pkg/ensure"
)

// New returns the factory for command resources. The probe command's exit
// status decides state: zero means met, nonzero means unmet. With no probe
// declared the state is never met and the convergence command always runs.
func New() resource.Factory {
	return factory
}

func factory(ctx context.Context, res *config.Resource) (resource.Check, error) {
	cfg := res.Command
	if cfg == nil {
		return nil, converrors.NewValidationError(res.ID, "command configuration missing", nil)
	}

	shell, shellArgs := determineShell(cfg.Shell)

	id := res.ID
	return func() (ensure.Outcome[*model.ResourceResult], error) {
		var none ensure.Outcome[*model.ResourceResult]

		if err := ctx.Err(); err != nil {
			return none, converrors.NewCheckError(id, err)
		}

		if strings.TrimSpace(cfg.Check) == "" {
			return ensure.Unmet(run(ctx, id, shell, shellArgs, cfg)), nil
		}

		probe := exec.CommandContext(ctx, shell, append(shellArgs, cfg.Check)...)
		probe.Env = buildEnv(cfg.Env)
		if cfg.WorkDir != "" {
			probe.Dir = cfg.WorkDir
		}

		output, err := probe.CombinedOutput()
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return ensure.Unmet(run(ctx, id, shell, shellArgs, cfg)), nil
			}
			if len(output) > 0 {
				err = fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
			}
			return none, converrors.NewCheckError(id, err)
		}

		return ensure.Met(&model.ResourceResult{
			ResourceID: id,
			Status:     model.StatusSatisfied,
			Message:    "check command reported state met",
		}), nil
	}, nil
}

func run(ctx context.Context, id, shell string, shellArgs []string, cfg *config.CommandResource) func() (*model.ResourceResult, error) {
	return func() (*model.ResourceResult, error) {
		cmd := exec.CommandContext(ctx, shell, append(shellArgs, cfg.Command)...)
		cmd.Env = buildEnv(cfg.Env)
		if cfg.WorkDir != "" {
			cmd.Dir = cfg.WorkDir
		}

		output, err := cmd.CombinedOutput()
		if err != nil {
			if len(output) > 0 {
				err = fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
			}
			return &model.ResourceResult{
				ResourceID: id,
				Status:     model.StatusFailed,
				Message:    err.Error(),
				Error:      err,
			}, converrors.NewActionError(id, err)
		}

		return &model.ResourceResult{
			ResourceID: id,
			Status:     model.StatusConverged,
			Message:    "command completed",
		}, nil
	}
}

func determineShell(requested string) (string, []string) {
	if requested != "" {
		return requested, []string{"-c"}
	}
	if runtime.GOOS == "windows" {
		comspec := os.Getenv("COMSPEC")
		if comspec == "" {
			comspec = "cmd.exe"
		}
		return comspec, []string{"/C"}
	}
	return "/bin/sh", []string{"-c"}
}

func buildEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return os.Environ()
	}

	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	env := os.Environ()
	for _, key := range keys {
		env = append(env, key+"="+extra[key])
	}
	return env
}
