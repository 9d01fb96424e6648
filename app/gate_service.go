// Package app wires the C1-C6 statistics core into per-trace and
// multi-trace services: GateService evaluates a single (baseline, target)
// pair end to end, and OrchestratorService fans GateService out across an
// entire trace document pair (C7).
package app

import (
	"context"
	"math/rand"

	"perfgate/adapters/stats/cascade"
	"perfgate/adapters/stats/primitives"
	"perfgate/adapters/stats/quality"
	"perfgate/adapters/stats/tail"
	"perfgate/adapters/stats/threshold"
	"perfgate/domain/core"
	"perfgate/domain/gate"
	"perfgate/internal/gatelog"
)

// GateService evaluates a single named trace: quality admission, threshold
// derivation, the detector cascade, and the verdict reducer, producing one
// immutable gate.GateResult.
type GateService struct {
	log *gatelog.Logger
}

func NewGateService() *GateService {
	return &GateService{log: gatelog.NewDefault("gate")}
}

// Evaluate runs the full single-trace pipeline. rng is the PRNG stream for
// this trace's bootstrap resampling (see ports.RNGPort); the caller is
// responsible for deriving it so that concurrent evaluations never share
// PRNG state.
func (s *GateService) Evaluate(ctx context.Context, name string, baseline, target []float64, cfg gate.Config, rng *rand.Rand) gate.GateResult {
	now := core.Now()
	baselineHash := gate.Sample(baseline).ContentHash()
	targetHash := gate.Sample(target).ContentHash()

	qualityBaseline, err := quality.Assess(baseline, cfg)
	if err != nil {
		return s.inconclusiveInternal(name, now, err)
	}
	qualityTarget, err := quality.Assess(target, cfg)
	if err != nil {
		return s.inconclusiveInternal(name, now, err)
	}

	if reason, inconclusive := admissionVerdict(qualityBaseline, qualityTarget); inconclusive {
		s.log.Warn("trace %s inconclusive at admission: %s", name, reason)
		return gate.GateResult{
			Name:         name,
			Status:       gate.StatusInconclusive,
			Reason:       reason,
			Inconclusive: true,
			Details: gate.Details{
				NBaseline:           len(baseline),
				NTarget:             len(target),
				BaselineContentHash: baselineHash,
				TargetContentHash:   targetHash,
				QualityBaseline:     qualityBaseline,
				QualityTarget:       qualityTarget,
				Mode:                cfg.Mode,
			},
			EvaluatedAt: now,
		}
	}

	baselineMedian, err := primitives.Median(baseline)
	if err != nil {
		return s.inconclusiveInternal(name, now, err)
	}
	targetMedian, err := primitives.Median(target)
	if err != nil {
		return s.inconclusiveInternal(name, now, err)
	}

	baselineTail, tailK, err := tail.Statistic(baseline, cfg.TailKPct, cfg.TailKMin, cfg.TailKMax)
	if err != nil {
		return s.inconclusiveInternal(name, now, err)
	}
	targetTail, _, err := tail.Statistic(target, cfg.TailKPct, cfg.TailKMin, cfg.TailKMax)
	if err != nil {
		return s.inconclusiveInternal(name, now, err)
	}

	thresholds := threshold.Derive(baselineMedian, baselineTail, cfg)

	outcome, err := cascade.Run(baseline, target, baselineMedian, targetMedian, baselineTail, targetTail, thresholds, cfg, rng)
	if err != nil {
		return s.inconclusiveInternal(name, now, err)
	}

	return gate.GateResult{
		Name:         name,
		Status:       outcome.Status,
		Reason:       outcome.Reason,
		Inconclusive: false,
		Details: gate.Details{
			NBaseline:           len(baseline),
			NTarget:             len(target),
			BaselineContentHash: baselineHash,
			TargetContentHash:   targetHash,

			BaselineMedianMs:  baselineMedian,
			TargetMedianMs:    targetMedian,
			MedianDeltaMs:     outcome.MedianDelta,
			MedianThresholdMs: thresholds.MedianThresholdMs,

			BaselineTailMs:  baselineTail,
			TargetTailMs:    targetTail,
			TailDeltaMs:     outcome.TailDelta,
			TailThresholdMs: thresholds.TailThresholdMs,
			TailK:           tailK,

			DirectionalityFrac:             outcome.DirectionalityFrac,
			DirectionalityThreshold:        cfg.DirectionalityThreshold,
			DirectionalityExceedsThreshold: outcome.DirectionalityExceedsThreshold,

			MannWhitneyU:         outcome.MannWhitneyU,
			MannWhitneyP:         outcome.MannWhitneyP,
			ProbTargetGtBaseline: outcome.ProbTargetGtBaseline,

			BootstrapCILowMs:  outcome.BootstrapCILow,
			BootstrapCIHighMs: outcome.BootstrapCIHigh,
			BootstrapPointMs:  outcome.BootstrapPoint,

			PracticalThresholdMs:     thresholds.PracticalThresholdMs,
			TailPracticalThresholdMs: thresholds.TailPracticalThresholdMs,

			QualityBaseline: qualityBaseline,
			QualityTarget:   qualityTarget,

			Mode:      cfg.Mode,
			Overrides: outcome.Overrides,
			Detectors: outcome.Detectors,
		},
		EvaluatedAt: now,
	}
}

// admissionVerdict implements the C2 short-circuit: too-few-samples takes
// priority over high-CV when both apply, since a CV computed on an
// undersized sample is itself unreliable.
func admissionVerdict(b, t gate.QualityReport) (reason string, inconclusive bool) {
	if b.HasIssue(gate.IssueTooFewSamples) || t.HasIssue(gate.IssueTooFewSamples) {
		return gate.ReasonTooFewSamples, true
	}
	if b.HasIssue(gate.IssueHighCV) || t.HasIssue(gate.IssueHighCV) {
		return gate.ReasonHighCV, true
	}
	return "", false
}

func (s *GateService) inconclusiveInternal(name string, now core.Timestamp, err error) gate.GateResult {
	s.log.Error("trace %s: internal error: %v", name, err)
	return gate.GateResult{
		Name:         name,
		Status:       gate.StatusInconclusive,
		Reason:       gate.ReasonInternalError,
		Inconclusive: true,
		Details: gate.Details{
			Overrides: nil,
		},
		EvaluatedAt: now,
	}
}
