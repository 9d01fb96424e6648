// Package threshold implements the threshold engine (C3): deriving the
// absolute regression bounds for a single trace from its baseline sample
// alone. Thresholds are a pure function of the baseline and the
// configured floors/percentages; once computed for a GateResult they are
// never recomputed against the target.
package threshold

import (
	"perfgate/domain/gate"
)

// Derive computes the ThresholdSet for a trace given its baseline median
// and baseline tail statistic. Each bound is max(absolute floor, percentage
// of the baseline value), so that a slow baseline trace doesn't demand an
// unrealistically tight absolute margin and a fast baseline trace isn't
// swamped by noise near zero.
func Derive(baselineMedian, baselineTail float64, cfg gate.Config) gate.ThresholdSet {
	medianThreshold := max(cfg.MSFloor, cfg.PctFloor*baselineMedian)
	tailThreshold := max(cfg.TailMSFloor, cfg.TailPctFloor*baselineTail)

	practicalThreshold := clamp(cfg.PracticalPct*baselineMedian, cfg.PracticalMin, cfg.PracticalMax)
	tailPracticalThreshold := clamp(cfg.PracticalPct*baselineTail, cfg.PracticalMin, cfg.PracticalMax)

	return gate.ThresholdSet{
		MedianThresholdMs:        medianThreshold,
		TailThresholdMs:          tailThreshold,
		PracticalThresholdMs:     practicalThreshold,
		TailPracticalThresholdMs: tailPracticalThreshold,
	}
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
