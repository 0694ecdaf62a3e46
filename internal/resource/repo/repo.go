package reporesource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/alexisbeaulieu97/converge/internal/config"
	"github.com/alexisbeaulieu97/converge/internal/model"
	"github.com/alexisbeaulieu97/converge/internal/resource"
	converrors "github.com/alexisbeaulieu97/converge/pkg/errors"
	"github.com/alexisbeaulieu97/converge/pkg/ensure"
)

// New returns the factory for repo resources: the destination must be a git
// clone of the declared URL, on the declared branch when one is given.
func New() resource.Factory {
	return factory
}

// probeState is what the read-only check observed, carried into the action
// so convergence does not repeat the probe.
type probeState struct {
	dirExists bool
	isGitRepo bool
}

func factory(ctx context.Context, res *config.Resource) (resource.Check, error) {
	cfg := res.Repo
	if cfg == nil {
		return nil, converrors.NewValidationError(res.ID, "repo configuration missing", nil)
	}

	id := res.ID
	return func() (ensure.Outcome[*model.ResourceResult], error) {
		var none ensure.Outcome[*model.ResourceResult]

		if err := ctx.Err(); err != nil {
			return none, converrors.NewCheckError(id, err)
		}

		state := probeState{dirExists: true}
		if _, err := os.Stat(cfg.Destination); err != nil {
			if !os.IsNotExist(err) {
				return none, converrors.NewCheckError(id, fmt.Errorf("cannot access destination: %w", err))
			}
			state.dirExists = false
		}

		var currentBranch, remoteURL string
		if state.dirExists {
			repo, err := git.PlainOpen(cfg.Destination)
			if err == nil {
				state.isGitRepo = true

				if head, err := repo.Head(); err == nil {
					currentBranch = head.Name().Short()
				}
				if remote, err := repo.Remote("origin"); err == nil && len(remote.Config().URLs) > 0 {
					remoteURL = remote.Config().URLs[0]
				}
			}
		}

		switch {
		case !state.dirExists:
			return ensure.Unmet(clone(ctx, id, cfg, state)), nil
		case !state.isGitRepo:
			return ensure.Unmet(clone(ctx, id, cfg, state)), nil
		case remoteURL != "" && remoteURL != cfg.URL:
			return ensure.Unmet(clone(ctx, id, cfg, state)), nil
		case cfg.Branch != "" && currentBranch != cfg.Branch:
			return ensure.Unmet(clone(ctx, id, cfg, state)), nil
		}

		return ensure.Met(&model.ResourceResult{
			ResourceID: id,
			Status:     model.StatusSatisfied,
			Message:    fmt.Sprintf("git repository exists at %s", cfg.Destination),
		}), nil
	}, nil
}

func clone(ctx context.Context, id string, cfg *config.RepoResource, state probeState) func() (*model.ResourceResult, error) {
	return func() (*model.ResourceResult, error) {
		if err := os.MkdirAll(filepath.Dir(cfg.Destination), 0o755); err != nil {
			return failed(id, err), converrors.NewActionError(id, err)
		}

		// A stale directory, whether a non-repo or a drifted clone, is
		// replaced wholesale.
		if state.dirExists {
			if err := os.RemoveAll(cfg.Destination); err != nil {
				return failed(id, err), converrors.NewActionError(id, err)
			}
		}

		opts := &git.CloneOptions{URL: cfg.URL}
		if cfg.Depth > 0 {
			opts.Depth = cfg.Depth
		}
		if cfg.Branch != "" {
			opts.ReferenceName = plumbing.NewBranchReferenceName(cfg.Branch)
			opts.SingleBranch = true
		}

		if _, err := git.PlainCloneContext(ctx, cfg.Destination, false, opts); err != nil {
			return failed(id, err), converrors.NewActionError(id, err)
		}

		return &model.ResourceResult{
			ResourceID: id,
			Status:     model.StatusConverged,
			Message:    fmt.Sprintf("cloned %s", cfg.URL),
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
