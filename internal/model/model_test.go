package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunSummaryTallies(t *testing.T) {
	t.Parallel()

	summary := &RunSummary{}
	summary.Add(ResourceResult{ResourceID: "a", Status: StatusSatisfied})
	summary.Add(ResourceResult{ResourceID: "b", Status: StatusConverged, Duration: time.Second})
	summary.Add(ResourceResult{ResourceID: "c", Status: StatusWouldConverge})
	summary.Add(ResourceResult{ResourceID: "d", Status: StatusFailed, Error: errors.New("boom")})

	require.Equal(t, 4, summary.Total)
	require.Equal(t, 1, summary.Satisfied)
	require.Equal(t, 1, summary.Converged)
	require.Equal(t, 1, summary.Unmet)
	require.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Results, 4)
	require.False(t, summary.OK())
}

func TestRunSummaryOK(t *testing.T) {
	t.Parallel()

	summary := &RunSummary{}
	summary.Add(ResourceResult{ResourceID: "a", Status: StatusSatisfied})
	summary.Add(ResourceResult{ResourceID: "b", Status: StatusConverged})

	require.True(t, summary.OK())
}
