package symlinkresource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexisbeaulieu97/converge/internal/config"
	"github.com/alexisbeaulieu97/converge/internal/model"
	"github.com/alexisbeaulieu97/converge/internal/resource"
	converrors "github.com/alexisbeaulieu97/converge/pkg/errors"
	"github.com/alexisbeaulieu97/converge/pkg/ensure"
)

// New returns the factory for symlink resources: the target must be a
// symbolic link pointing at the declared source.
func New() resource.Factory {
	return factory
}

func factory(ctx context.Context, res *config.Resource) (resource.Check, error) {
	cfg := res.Symlink
	if cfg == nil {
		return nil, converrors.NewValidationError(res.ID, "symlink configuration missing", nil)
	}

	id := res.ID
	return func() (ensure.Outcome[*model.ResourceResult], error) {
		var none ensure.Outcome[*model.ResourceResult]

		if err := ctx.Err(); err != nil {
			return none, converrors.NewCheckError(id, err)
		}

		info, err := os.Lstat(cfg.Target)
		if err != nil {
			if os.IsNotExist(err) {
				return ensure.Unmet(link(id, cfg, false)), nil
			}
			return none, converrors.NewCheckError(id, err)
		}

		if info.Mode()&os.ModeSymlink == 0 {
			return ensure.Unmet(link(id, cfg, true)), nil
		}

		dest, err := os.Readlink(cfg.Target)
		if err != nil {
			return none, converrors.NewCheckError(id, err)
		}
		if dest == cfg.Source {
			return ensure.Met(&model.ResourceResult{
				ResourceID: id,
				Status:     model.StatusSatisfied,
				Message:    fmt.Sprintf("%s already links to %s", cfg.Target, cfg.Source),
			}), nil
		}

		return ensure.Unmet(link(id, cfg, true)), nil
	}, nil
}

// link replaces the target when replace is set, which is only permitted with
// force; otherwise the convergence fails rather than clobbering the target.
func link(id string, cfg *config.SymlinkResource, replace bool) func() (*model.ResourceResult, error) {
	return func() (*model.ResourceResult, error) {
		if replace {
			if !cfg.Force {
				err := fmt.Errorf("target %s already exists", cfg.Target)
				return failed(id, err), converrors.NewActionError(id, err)
			}
			if err := os.Remove(cfg.Target); err != nil {
				return failed(id, err), converrors.NewActionError(id, err)
			}
		}

		if err := os.MkdirAll(filepath.Dir(cfg.Target), 0o755); err != nil {
			return failed(id, err), converrors.NewActionError(id, err)
		}
		if err := os.Symlink(cfg.Source, cfg.Target); err != nil {
			return failed(id, err), converrors.NewActionError(id, err)
		}

		return &model.ResourceResult{
			ResourceID: id,
			Status:     model.StatusConverged,
			Message:    fmt.Sprintf("linked %s -> %s", cfg.Target, cfg.Source),
		}, nil
	}
}

func failed(id string, err error) *model.ResourceResult {
	return &model.ResourceResult{
		ResourceID: id,
		Status:     model.StatusFailed,
		Message:    err.Error(),
		Error:      err,
	}
}
