package app

import (
	"context"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfgate/domain/gate"
)

type fakeRNGPort struct{}

func (fakeRNGPort) Stream(ctx context.Context, runID, traceName string, baseSeed int64) (*rand.Rand, error) {
	return rand.New(rand.NewSource(baseSeed)), nil
}

func traces(names ...string) []gate.Trace {
	out := make([]gate.Trace, len(names))
	for i, n := range names {
		out[i] = gate.Trace{Name: n, Values: jitterSample(30, 100)}
	}
	return out
}

// TestRunExitStatusOnlyFromIntersection checks property P8: the aggregate
// Failed flag is set iff at least one intersected trace FAILs; traces
// present on only one side never contribute.
func TestRunExitStatusOnlyFromIntersection(t *testing.T) {
	orch := NewOrchestratorService(NewGateService(), fakeRNGPort{})
	cfg := gate.DefaultConfig()

	baseline := []gate.Trace{
		{Name: "checkout", Values: jitterSample(30, 100)},
		{Name: "only-in-baseline", Values: jitterSample(30, 100)},
	}
	target := []gate.Trace{
		{Name: "checkout", Values: jitterSample(30, 100)},
		{Name: "only-in-target", Values: jitterSample(30, 100)},
	}

	summary, err := orch.Run(context.Background(), baseline, target, cfg)
	require.NoError(t, err)

	assert.False(t, summary.Failed)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, []string{"only-in-target"}, summary.MissingBaseline)
	assert.Equal(t, []string{"only-in-baseline"}, summary.MissingTarget)
}

func TestRunFailedWhenAnyTraceFails(t *testing.T) {
	orch := NewOrchestratorService(NewGateService(), fakeRNGPort{})
	cfg := gate.DefaultConfig()

	baseline := []gate.Trace{
		{Name: "stable", Values: jitterSample(30, 100)},
		{Name: "regressed", Values: jitterSample(30, 100)},
	}
	target := []gate.Trace{
		{Name: "stable", Values: jitterSample(30, 100)},
		{Name: "regressed", Values: jitterSample(30, 300)},
	}

	summary, err := orch.Run(context.Background(), baseline, target, cfg)
	require.NoError(t, err)
	assert.True(t, summary.Failed)
}

func TestRunRejectsDuplicateNames(t *testing.T) {
	orch := NewOrchestratorService(NewGateService(), fakeRNGPort{})
	cfg := gate.DefaultConfig()

	baseline := []gate.Trace{
		{Name: "dup", Values: jitterSample(30, 100)},
		{Name: "dup", Values: jitterSample(30, 100)},
	}
	target := traces("dup")

	_, err := orch.Run(context.Background(), baseline, target, cfg)
	assert.Error(t, err)
}

func TestRunHandlesManyTracesConcurrently(t *testing.T) {
	orch := NewOrchestratorService(NewGateService(), fakeRNGPort{})
	cfg := gate.DefaultConfig()

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	baseline := traces(names...)
	target := traces(names...)

	summary, err := orch.Run(context.Background(), baseline, target, cfg)
	require.NoError(t, err)
	require.Len(t, summary.Results, len(names))

	resultNames := make([]string, len(summary.Results))
	for i, r := range summary.Results {
		resultNames[i] = r.Name
	}
	assert.True(t, sort.StringsAreSorted(resultNames))
}
