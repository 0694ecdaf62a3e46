package commandresource

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/converge/internal/config"
	"github.com/alexisbeaulieu97/converge/internal/model"
	converrors "github.com/alexisbeaulieu97/converge/pkg/errors"
	"github.com/alexisbeaulieu97/converge/pkg/ensure"
)

func commandResource(id string, cfg config.CommandResource) *config.Resource {
	return &config.Resource{ID: id, Type: "command", Command: &cfg}
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestCommandSatisfiedWhenCheckSucceeds(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	marker := filepath.Join(t.TempDir(), "marker")
	check, err := New()(context.Background(), commandResource("probe", config.CommandResource{
		Check:   "true",
		Command: "touch " + marker,
	}))
	require.NoError(t, err)

	result, err := ensure.Ensure(check)
	require.NoError(t, err)
	require.Equal(t, model.StatusSatisfied, result.Status)

	_, statErr := os.Stat(marker)
	require.Error(t, statErr, "convergence command must not run when the check passes")
}

func TestCommandRunsWhenCheckFails(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	marker := filepath.Join(t.TempDir(), "marker")
	check, err := New()(context.Background(), commandResource("converge", config.CommandResource{
		Check:   "false",
		Command: "touch " + marker,
	}))
	require.NoError(t, err)

	result, err := ensure.Ensure(check)
	require.NoError(t, err)
	require.Equal(t, model.StatusConverged, result.Status)

	_, statErr := os.Stat(marker)
	require.NoError(t, statErr)
}

func TestCommandAlwaysRunsWithoutCheck(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	marker := filepath.Join(t.TempDir(), "marker")
	check, err := New()(context.Background(), commandResource("always", config.CommandResource{
		Command: "touch " + marker,
	}))
	require.NoError(t, err)

	result, err := ensure.Ensure(check)
	require.NoError(t, err)
	require.Equal(t, model.StatusConverged, result.Status)
}

func TestCommandActionFailurePropagates(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	check, err := New()(context.Background(), commandResource("doomed", config.CommandResource{
		Check:   "false",
		Command: "echo broken >&2; exit 3",
	}))
	require.NoError(t, err)

	result, err := ensure.Ensure(check)
	var actionErr *converrors.ActionError
	require.ErrorAs(t, err, &actionErr)
	require.Equal(t, model.StatusFailed, result.Status)
	require.Contains(t, result.Message, "broken")
}

func TestCommandCheckFailureWhenShellMissing(t *testing.T) {
	t.Parallel()

	check, err := New()(context.Background(), commandResource("noshell", config.CommandResource{
		Shell:   filepath.Join(t.TempDir(), "no-such-shell"),
		Check:   "true",
		Command: "true",
	}))
	require.NoError(t, err)

	_, err = ensure.Ensure(check)
	var checkErr *converrors.CheckError
	require.ErrorAs(t, err, &checkErr)
}

func TestCommandEnvAndWorkdir(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	dir := t.TempDir()
	check, err := New()(context.Background(), commandResource("env", config.CommandResource{
		Command: "printf %s \"$GREETING\" > greeting.txt",
		WorkDir: dir,
		Env:     map[string]string{"GREETING": "hello"},
	}))
	require.NoError(t, err)

	_, err = ensure.Ensure(check)
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(dir, "greeting.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(contents))
}

func TestCommandMissingConfig(t *testing.T) {
	t.Parallel()

	_, err := New()(context.Background(), &config.Resource{ID: "bare", Type: "command"})
	var validationErr *converrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
