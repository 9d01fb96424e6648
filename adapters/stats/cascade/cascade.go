// Package cascade implements the detector cascade (C5) and the verdict
// reducer (C6): the median, tail, directionality, and Mann-Whitney
// detectors; the PR-mode combination rule with practical override; and
// the release-mode TOST equivalence check. This is the decision core of
// the gate — everything upstream (quality, threshold, tail) feeds it pure
// values, and everything it produces is immutable once returned.
package cascade

import (
	"math/rand"

	"perfgate/adapters/stats/primitives"
	"perfgate/domain/gate"
)

// Outcome is the full result of running the cascade (and, in release mode,
// the TOST check) against one admitted (baseline, target) pair.
type Outcome struct {
	Status     gate.Status
	Reason     string
	Overrides  []string
	Detectors  []gate.DetectorOutcome
	MedianDelta,
	TailDelta,
	DirectionalityFrac,
	MannWhitneyU,
	MannWhitneyP,
	ProbTargetGtBaseline,
	BootstrapCILow,
	BootstrapCIHigh,
	BootstrapPoint float64
	// DirectionalityExceedsThreshold compares DirectionalityFrac against
	// cfg.DirectionalityThreshold. Informational only, per spec: it is
	// surfaced in details alongside the raw fraction but never feeds the
	// PASS/FAIL reducer.
	DirectionalityExceedsThreshold bool
}

// Run executes the full C5/C6 decision for one trace: the four detectors,
// the bootstrap CI, and the mode-specific reducer. baselineMedian/targetMedian
// and baselineTail/targetTail are supplied by the caller (computed via
// primitives.Median and the tail package) so this function stays a pure
// function of numbers, not of how they were derived.
func Run(
	baseline, target []float64,
	baselineMedian, targetMedian float64,
	baselineTail, targetTail float64,
	thresholds gate.ThresholdSet,
	cfg gate.Config,
	rng *rand.Rand,
) (Outcome, error) {
	medianDelta := targetMedian - baselineMedian
	tailDelta := targetTail - baselineTail

	dirFrac := directionality(target, baselineMedian)
	dirExceeds := dirFrac > cfg.DirectionalityThreshold

	u, pGreater, probTGtB, err := primitives.RankSumU(baseline, target)
	if err != nil {
		return Outcome{}, err
	}

	bootLo, bootHi, bootPoint, err := primitives.BootstrapMedianDiff(baseline, target, cfg.BootstrapB, cfg.Alpha, rng)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{
		MedianDelta:                    medianDelta,
		TailDelta:                      tailDelta,
		DirectionalityFrac:             dirFrac,
		DirectionalityExceedsThreshold: dirExceeds,
		MannWhitneyU:                   u,
		MannWhitneyP:         pGreater,
		ProbTargetGtBaseline: probTGtB,
		BootstrapCILow:       bootLo,
		BootstrapCIHigh:      bootHi,
		BootstrapPoint:       bootPoint,
	}

	if cfg.Mode == gate.ModeRelease {
		reduceRelease(&out, cfg)
		return out, nil
	}

	reducePR(&out, medianDelta, tailDelta, thresholds, cfg)
	return out, nil
}

// directionality is the fraction of target observations exceeding the
// baseline median. Recorded in details; never gates the verdict on its own.
func directionality(target []float64, baselineMedian float64) float64 {
	if len(target) == 0 {
		return 0
	}
	count := 0
	for _, v := range target {
		if v > baselineMedian {
			count++
		}
	}
	return float64(count) / float64(len(target))
}

func medianDetector(medianDelta float64, thresholds gate.ThresholdSet) gate.DetectorOutcome {
	fired := medianDelta > thresholds.MedianThresholdMs
	return gate.DetectorOutcome{Name: "median", Fired: fired, Reason: gate.ReasonMedianRegression, Magnitude: medianDelta - thresholds.MedianThresholdMs}
}

func tailDetector(tailDelta float64, thresholds gate.ThresholdSet) gate.DetectorOutcome {
	fired := tailDelta > thresholds.TailThresholdMs
	return gate.DetectorOutcome{Name: "tail", Fired: fired, Reason: gate.ReasonTailRegression, Magnitude: tailDelta - thresholds.TailThresholdMs}
}

func mannWhitneyDetector(pGreater, probTGtB float64, cfg gate.Config) gate.DetectorOutcome {
	if cfg.NoMannWhitney {
		return gate.DetectorOutcome{Name: "mann_whitney", Fired: false, Reason: gate.ReasonMannWhitney}
	}
	fired := pGreater < cfg.Alpha && probTGtB >= cfg.EffectFloorProb
	return gate.DetectorOutcome{Name: "mann_whitney", Fired: fired, Reason: gate.ReasonMannWhitney, Magnitude: cfg.Alpha - pGreater}
}

// reducePR applies the PR-mode combination rule: the
// three detectors, then the practical override, then the NO_CHANGE check
// when nothing fired.
func reducePR(out *Outcome, medianDelta, tailDelta float64, thresholds gate.ThresholdSet, cfg gate.Config) {
	md := medianDetector(medianDelta, thresholds)
	td := tailDetector(tailDelta, thresholds)
	mw := mannWhitneyDetector(out.MannWhitneyP, out.ProbTargetGtBaseline, cfg)

	out.Detectors = []gate.DetectorOutcome{md, td, mw}

	anyFail := md.Fired || td.Fired || mw.Fired

	withinPractical := medianDelta <= thresholds.PracticalThresholdMs && tailDelta <= thresholds.TailPracticalThresholdMs

	if anyFail {
		if withinPractical {
			out.Status = gate.StatusPass
			out.Reason = gate.ReasonPracticalOverride
			out.Overrides = append(out.Overrides, gate.ReasonPracticalOverride)
			return
		}
		out.Status = gate.StatusFail
		out.Reason = firingReason(md, td, mw)
		return
	}

	absWithinPractical := abs(medianDelta) < thresholds.PracticalThresholdMs && abs(tailDelta) < thresholds.TailPracticalThresholdMs
	if absWithinPractical {
		out.Status = gate.StatusNoChange
		out.Reason = gate.ReasonNoMeaningfulChange
		return
	}

	out.Status = gate.StatusPass
	out.Reason = gate.ReasonImprovement
}

// firingReason names the first detector whose bound was exceeded, in
// median/tail/mann_whitney order, prefixing with "mw" when Mann-Whitney is
// the sole detector that fired.
func firingReason(md, td, mw gate.DetectorOutcome) string {
	switch {
	case md.Fired:
		return gate.ReasonMedianRegression
	case td.Fired:
		return gate.ReasonTailRegression
	case mw.Fired:
		return "mw_" + gate.ReasonMannWhitney
	default:
		return gate.ReasonMannWhitney
	}
}

// reduceRelease applies the release-mode TOST equivalence check: PASS-equivalent iff the bootstrap CI of median(t)-median(b) lies
// strictly inside (-margin, +margin).
func reduceRelease(out *Outcome, cfg gate.Config) {
	margin := cfg.EquivalenceMarginMs
	equivalent := out.BootstrapCILow > -margin && out.BootstrapCIHigh < margin

	out.Detectors = []gate.DetectorOutcome{{
		Name:      "tost_equivalence",
		Fired:     !equivalent,
		Reason:    gate.ReasonEquivalenceFail,
		Magnitude: max(abs(out.BootstrapCILow), abs(out.BootstrapCIHigh)) - margin,
	}}

	if equivalent {
		out.Status = gate.StatusPass
		out.Reason = gate.ReasonEquivalencePass
		return
	}
	out.Status = gate.StatusFail
	out.Reason = gate.ReasonEquivalenceFail
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
