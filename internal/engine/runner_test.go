package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/converge/internal/config"
	"github.com/alexisbeaulieu97/converge/internal/logger"
	"github.com/alexisbeaulieu97/converge/internal/model"
	"github.com/alexisbeaulieu97/converge/internal/resource"
	converrors "github.com/alexisbeaulieu97/converge/pkg/errors"
	"github.com/alexisbeaulieu97/converge/pkg/ensure"
)

type stubCounters struct {
	checks  int
	actions int
}

func stubFactory(met bool, checkErr, actionErr error, counters *stubCounters) resource.Factory {
	return func(_ context.Context, res *config.Resource) (resource.Check, error) {
		id := res.ID
		return func() (ensure.Outcome[*model.ResourceResult], error) {
			counters.checks++
			if checkErr != nil {
				return ensure.Outcome[*model.ResourceResult]{}, converrors.NewCheckError(id, checkErr)
			}
			if met {
				return ensure.Met(&model.ResourceResult{
					ResourceID: id,
					Status:     model.StatusSatisfied,
					Message:    "already met",
				}), nil
			}
			return ensure.Unmet(func() (*model.ResourceResult, error) {
				counters.actions++
				if actionErr != nil {
					return &model.ResourceResult{
						ResourceID: id,
						Status:     model.StatusFailed,
						Message:    actionErr.Error(),
						Error:      actionErr,
					}, converrors.NewActionError(id, actionErr)
				}
				return &model.ResourceResult{
					ResourceID: id,
					Status:     model.StatusConverged,
					Message:    "converged",
				}, nil
			}), nil
		}, nil
	}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Options{Level: "fatal"})
	require.NoError(t, err)
	return log
}

func manifestWith(resources ...config.Resource) *config.Manifest {
	return &config.Manifest{
		Version:   "1.0",
		Name:      "test",
		Resources: resources,
	}
}

func stubResource(id string) config.Resource {
	return config.Resource{ID: id, Type: "stub", Enabled: true}
}

func TestRunApplyConvergesUnmetResource(t *testing.T) {
	t.Parallel()

	counters := &stubCounters{}
	reg := resource.NewRegistry()
	require.NoError(t, reg.Register("stub", stubFactory(false, nil, nil, counters)))

	runner := NewRunner(reg, testLogger(t))
	summary, err := runner.Run(context.Background(), manifestWith(stubResource("a")), ModeApply, Hooks{})
	require.NoError(t, err)

	require.Equal(t, 1, summary.Converged)
	require.True(t, summary.OK())
	require.Equal(t, 1, counters.checks)
	require.Equal(t, 1, counters.actions)
}

func TestRunApplySkipsActionWhenSatisfied(t *testing.T) {
	t.Parallel()

	counters := &stubCounters{}
	reg := resource.NewRegistry()
	require.NoError(t, reg.Register("stub", stubFactory(true, nil, nil, counters)))

	runner := NewRunner(reg, testLogger(t))
	summary, err := runner.Run(context.Background(), manifestWith(stubResource("a")), ModeApply, Hooks{})
	require.NoError(t, err)

	require.Equal(t, 1, summary.Satisfied)
	require.Equal(t, 1, counters.checks)
	require.Zero(t, counters.actions)
}

func TestRunCheckNeverRunsAction(t *testing.T) {
	t.Parallel()

	counters := &stubCounters{}
	reg := resource.NewRegistry()
	require.NoError(t, reg.Register("stub", stubFactory(false, nil, nil, counters)))

	runner := NewRunner(reg, testLogger(t))
	summary, err := runner.Run(context.Background(), manifestWith(stubResource("a")), ModeCheck, Hooks{})
	require.NoError(t, err)

	require.Equal(t, 1, summary.Unmet)
	require.False(t, summary.OK())
	require.Equal(t, 1, counters.checks)
	require.Zero(t, counters.actions, "check mode must never invoke the action")
	require.Equal(t, model.StatusWouldConverge, summary.Results[0].Status)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	failing := &stubCounters{}
	reg := resource.NewRegistry()
	require.NoError(t, reg.Register("stub", stubFactory(false, nil, errors.New("boom"), failing)))

	runner := NewRunner(reg, testLogger(t))
	summary, err := runner.Run(context.Background(), manifestWith(stubResource("a"), stubResource("b")), ModeApply, Hooks{})

	var actionErr *converrors.ActionError
	require.ErrorAs(t, err, &actionErr)
	require.Equal(t, 1, summary.Total, "second resource must not run after a failure")
	require.Equal(t, 1, summary.Failed)
}

func TestRunContinueOnError(t *testing.T) {
	t.Parallel()

	counters := &stubCounters{}
	reg := resource.NewRegistry()
	require.NoError(t, reg.Register("stub", stubFactory(false, nil, errors.New("boom"), counters)))

	manifest := manifestWith(stubResource("a"), stubResource("b"))
	manifest.Settings.ContinueOnError = true

	runner := NewRunner(reg, testLogger(t))
	summary, err := runner.Run(context.Background(), manifest, ModeApply, Hooks{})
	require.Error(t, err)
	require.Equal(t, 2, summary.Total)
	require.Equal(t, 2, summary.Failed)
}

func TestRunCheckFailureSkipsAction(t *testing.T) {
	t.Parallel()

	counters := &stubCounters{}
	reg := resource.NewRegistry()
	require.NoError(t, reg.Register("stub", stubFactory(false, errors.New("probe refused"), nil, counters)))

	runner := NewRunner(reg, testLogger(t))
	summary, err := runner.Run(context.Background(), manifestWith(stubResource("a")), ModeApply, Hooks{})

	var checkErr *converrors.CheckError
	require.ErrorAs(t, err, &checkErr)
	require.Zero(t, counters.actions)
	require.Equal(t, model.StatusFailed, summary.Results[0].Status)
}

func TestRunSkipsDisabledResources(t *testing.T) {
	t.Parallel()

	counters := &stubCounters{}
	reg := resource.NewRegistry()
	require.NoError(t, reg.Register("stub", stubFactory(true, nil, nil, counters)))

	disabled := stubResource("a")
	disabled.Enabled = false

	runner := NewRunner(reg, testLogger(t))
	summary, err := runner.Run(context.Background(), manifestWith(disabled), ModeApply, Hooks{})
	require.NoError(t, err)
	require.Zero(t, summary.Total)
	require.Zero(t, counters.checks)
}

func TestRunReportsUnknownResourceType(t *testing.T) {
	t.Parallel()

	runner := NewRunner(resource.NewRegistry(), testLogger(t))
	summary, err := runner.Run(context.Background(), manifestWith(stubResource("a")), ModeApply, Hooks{})
	require.Error(t, err)
	require.Equal(t, 1, summary.Failed)
}

func TestRunInvokesHooksInOrder(t *testing.T) {
	t.Parallel()

	counters := &stubCounters{}
	reg := resource.NewRegistry()
	require.NoError(t, reg.Register("stub", stubFactory(true, nil, nil, counters)))

	var events []string
	hooks := Hooks{
		OnStart:  func(id string) { events = append(events, "start:"+id) },
		OnResult: func(res model.ResourceResult) { events = append(events, "done:"+res.ResourceID) },
	}

	runner := NewRunner(reg, testLogger(t))
	_, err := runner.Run(context.Background(), manifestWith(stubResource("a"), stubResource("b")), ModeApply, hooks)
	require.NoError(t, err)
	require.Equal(t, []string{"start:a", "done:a", "start:b", "done:b"}, events)
}

func TestRunCancelledContextStopsRun(t *testing.T) {
	t.Parallel()

	counters := &stubCounters{}
	reg := resource.NewRegistry()
	require.NoError(t, reg.Register("stub", stubFactory(true, nil, nil, counters)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(reg, testLogger(t))
	summary, err := runner.Run(ctx, manifestWith(stubResource("a")), ModeApply, Hooks{})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, summary.Total)
}
