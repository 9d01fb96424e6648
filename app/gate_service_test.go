package app

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfgate/domain/gate"
)

func jitterSample(n int, base float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = base + float64(i%5) - 2
	}
	return s
}

func TestEvaluateInconclusiveOnTooFewSamples(t *testing.T) {
	svc := NewGateService()
	cfg := gate.DefaultConfig()
	rng := rand.New(rand.NewSource(1))

	result := svc.Evaluate(context.Background(), "small-trace", []float64{100, 101, 102}, []float64{100, 101, 102}, cfg, rng)

	require.Equal(t, gate.StatusInconclusive, result.Status)
	assert.Equal(t, gate.ReasonTooFewSamples, result.Reason)
}

func TestEvaluateInconclusiveOnEmptySample(t *testing.T) {
	svc := NewGateService()
	cfg := gate.DefaultConfig()
	rng := rand.New(rand.NewSource(1))

	result := svc.Evaluate(context.Background(), "empty-trace", []float64{}, []float64{}, cfg, rng)

	require.Equal(t, gate.StatusInconclusive, result.Status)
	assert.Equal(t, gate.ReasonTooFewSamples, result.Reason)
	assert.Equal(t, 0, result.Details.NBaseline)
}

func TestEvaluatePassOnStableTraces(t *testing.T) {
	svc := NewGateService()
	cfg := gate.DefaultConfig()
	rng := rand.New(rand.NewSource(1))

	baseline := jitterSample(30, 100)
	target := jitterSample(30, 100)

	result := svc.Evaluate(context.Background(), "stable-trace", baseline, target, cfg, rng)

	assert.NotEqual(t, gate.StatusFail, result.Status)
	assert.Equal(t, 30, result.Details.NBaseline)
	assert.Equal(t, 30, result.Details.NTarget)
}

func TestEvaluateFailOnClearRegression(t *testing.T) {
	svc := NewGateService()
	cfg := gate.DefaultConfig()
	rng := rand.New(rand.NewSource(1))

	baseline := jitterSample(30, 100)
	target := jitterSample(30, 300)

	result := svc.Evaluate(context.Background(), "regressed-trace", baseline, target, cfg, rng)

	assert.Equal(t, gate.StatusFail, result.Status)
}

func TestEvaluateReleaseModeEquivalence(t *testing.T) {
	svc := NewGateService()
	cfg := gate.DefaultConfig()
	cfg.Mode = gate.ModeRelease
	rng := rand.New(rand.NewSource(1))

	baseline := jitterSample(40, 100)
	target := jitterSample(40, 101)

	result := svc.Evaluate(context.Background(), "release-trace", baseline, target, cfg, rng)

	require.Equal(t, gate.StatusPass, result.Status)
	assert.Equal(t, gate.ModeRelease, result.Details.Mode)
}
