package lineinfileresource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexisbeaulieu97/converge/internal/config"
	"github.com/alexisbeaulieu97/converge/internal/model"
	"github.com/alexisbeaulieu97/converge/internal/resource"
	converrors "github.com/alexisbeaulieu97/converge/pkg/errors"
	"github.com/alexisbeaulieu97/converge/pkg/ensure"
)

// New returns the factory for line_in_file resources: the file must contain
// the declared line exactly; converging appends it, creating the file when
// it does not exist.
func New() resource.Factory {
	return factory
}

func factory(ctx context.Context, res *config.Resource) (resource.Check, error) {
	cfg := res.LineInFile
	if cfg == nil {
		return nil, converrors.NewValidationError(res.ID, "line_in_file configuration missing", nil)
	}

	id := res.ID
	line := strings.TrimRight(cfg.Line, "\n")

	return func() (ensure.Outcome[*model.ResourceResult], error) {
		var none ensure.Outcome[*model.ResourceResult]

		if err := ctx.Err(); err != nil {
			return none, converrors.NewCheckError(id, err)
		}

		data, err := os.ReadFile(cfg.Path)
		if err != nil {
			if os.IsNotExist(err) {
				return ensure.Unmet(appendLine(id, cfg.Path, line, nil)), nil
			}
			return none, converrors.NewCheckError(id, err)
		}

		for _, existing := range strings.Split(string(data), "\n") {
			if existing == line {
				return ensure.Met(&model.ResourceResult{
					ResourceID: id,
					Status:     model.StatusSatisfied,
					Message:    fmt.Sprintf("%s already contains the line", cfg.Path),
				}), nil
			}
		}

		return ensure.Unmet(appendLine(id, cfg.Path, line, data)), nil
	}, nil
}

func appendLine(id, path, line string, current []byte) func() (*model.ResourceResult, error) {
	return func() (*model.ResourceResult, error) {
		updated := string(current)
		if updated != "" && !strings.HasSuffix(updated, "\n") {
			updated += "\n"
		}
		updated += line + "\n"

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return failed(id, err), converrors.NewActionError(id, err)
		}
		if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
			return failed(id, err), converrors.NewActionError(id, err)
		}

		return &model.ResourceResult{
			ResourceID: id,
			Status:     model.StatusConverged,
			Message:    fmt.Sprintf("appended line to %s", path),
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
