package fileresource

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexisbeaulieu97/converge/internal/config"
	"github.com/alexisbeaulieu97/converge/internal/model"
	"github.com/alexisbeaulieu97/converge/internal/resource"
	converrors "github.com/alexisbeaulieu97/converge/pkg/errors"
	"github.com/alexisbeaulieu97/converge/pkg/ensure"
)

// New returns the factory for file resources: the path must exist as a
// regular file and, when declared, hold exactly the given content and
// permissions.
func New() resource.Factory {
	return factory
}

func factory(ctx context.Context, res *config.Resource) (resource.Check, error) {
	cfg := res.File
	if cfg == nil {
		return nil, converrors.NewValidationError(res.ID, "file configuration missing", nil)
	}

	mode := fs.FileMode(0o644)
	modeSet := cfg.Mode != ""
	if modeSet {
		parsed, err := strconv.ParseUint(cfg.Mode, 8, 32)
		if err != nil {
			return nil, converrors.NewValidationError(res.ID, fmt.Sprintf("invalid mode %q", cfg.Mode), err)
		}
		mode = fs.FileMode(parsed)
	}

	id := res.ID
	return func() (ensure.Outcome[*model.ResourceResult], error) {
		var none ensure.Outcome[*model.ResourceResult]

		if err := ctx.Err(); err != nil {
			return none, converrors.NewCheckError(id, err)
		}

		info, err := os.Stat(cfg.Path)
		switch {
		case err == nil:
			if info.IsDir() {
				return none, converrors.NewCheckError(id, fmt.Errorf("%s is a directory, expected a file", cfg.Path))
			}

			if cfg.Content != "" {
				current, readErr := os.ReadFile(cfg.Path)
				if readErr != nil {
					return none, converrors.NewCheckError(id, readErr)
				}
				if string(current) != cfg.Content {
					return ensure.Unmet(write(id, cfg, mode, modeSet, "updated %s")), nil
				}
			}

			if modeSet && info.Mode().Perm() != mode.Perm() {
				return ensure.Unmet(chmod(id, cfg.Path, mode)), nil
			}

			return ensure.Met(satisfied(id, fmt.Sprintf("file %s is in the desired state", cfg.Path))), nil

		case os.IsNotExist(err):
			return ensure.Unmet(write(id, cfg, mode, modeSet, "created %s")), nil

		default:
			return none, converrors.NewCheckError(id, err)
		}
	}, nil
}

func satisfied(id, message string) *model.ResourceResult {
	return &model.ResourceResult{ResourceID: id, Status: model.StatusSatisfied, Message: message}
}

func write(id string, cfg *config.FileResource, mode fs.FileMode, modeSet bool, verb string) func() (*model.ResourceResult, error) {
	return func() (*model.ResourceResult, error) {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return failed(id, err), converrors.NewActionError(id, err)
		}
		if err := os.WriteFile(cfg.Path, []byte(cfg.Content), mode); err != nil {
			return failed(id, err), converrors.NewActionError(id, err)
		}
		// WriteFile only applies mode at creation, and the umask may have
		// masked bits off even then.
		if modeSet {
			if err := os.Chmod(cfg.Path, mode); err != nil {
				return failed(id, err), converrors.NewActionError(id, err)
			}
		}
		return &model.ResourceResult{
			ResourceID: id,
			Status:     model.StatusConverged,
			Message:    fmt.Sprintf(verb, cfg.Path),
		}, nil
	}
}

func chmod(id, path string, mode fs.FileMode) func() (*model.ResourceResult, error) {
	return func() (*model.ResourceResult, error) {
		if err := os.Chmod(path, mode); err != nil {
			return failed(id, err), converrors.NewActionError(id, err)
		}
		return &model.ResourceResult{
			ResourceID: id,
			Status:     model.StatusConverged,
			Message:    fmt.Sprintf("set mode of %s to %s", path, mode),
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
