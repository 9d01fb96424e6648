// Package quality implements the data-quality gate (C2): the MIN_N and
// CV_MAX_PCT screens, IQR-based outlier counting, and the composite
// 0-100 quality score surfaced in every GateResult's details.
package quality

import (
	"perfgate/adapters/stats/primitives"
	"perfgate/domain/gate"
)

// Assess runs the data-quality screens against a single sample and
// produces a gate.QualityReport. It never returns an error for a
// structurally valid, non-empty, non-negative sample: insufficient data
// and high variability are reported as Issues rather than failures, so
// that the caller (the gate service) decides whether an issue demotes the
// verdict to INCONCLUSIVE.
func Assess(sample []float64, cfg gate.Config) (gate.QualityReport, error) {
	n := len(sample)
	report := gate.QualityReport{N: n}

	// The too-few-samples screen must run before any statistic that
	// assumes a non-empty (or large-enough) sample, so that an empty or
	// undersized sample is reported as IssueTooFewSamples rather than
	// surfacing core.ErrEmptySample (or a quartile error) to the
	// caller. Mean/CV/outlier counting are only meaningful once MinN is
	// cleared.
	if n < cfg.MinN {
		report.Issues = append(report.Issues, gate.IssueTooFewSamples)
		report.QualityScore = score(report)
		return report, nil
	}

	mean, err := primitives.Mean(sample)
	if err != nil {
		return gate.QualityReport{}, err
	}
	report.Mean = mean

	cv, err := primitives.CV(sample)
	if err != nil {
		// Zero-mean samples have an undefined CV; treat as maximally
		// unreliable rather than propagating the error to the caller.
		cv = 100
	}
	report.CVPercent = cv

	outliers, err := countOutliers(sample)
	if err != nil {
		return gate.QualityReport{}, err
	}
	report.OutlierCount = outliers

	if cv > cfg.CVMaxPct {
		report.Issues = append(report.Issues, gate.IssueHighCV)
	}
	if float64(outliers)/float64(n) > 0.20 {
		report.Issues = append(report.Issues, gate.IssueManyOutliers)
	}

	report.QualityScore = score(report)

	return report, nil
}

// countOutliers counts values outside 1.5*IQR of the sample's quartiles.
func countOutliers(sample []float64) (int, error) {
	q1, q3, err := primitives.Quartiles(sample)
	if err != nil {
		return 0, err
	}
	iqr := q3 - q1
	lowFence := q1 - 1.5*iqr
	highFence := q3 + 1.5*iqr

	count := 0
	for _, v := range sample {
		if v < lowFence || v > highFence {
			count++
		}
	}
	return count, nil
}

// score combines the quality signals into a single 0-100 figure: a sample
// that clears MIN_N, has low CV, and few outliers scores close to 100;
// each issue subtracts a fixed penalty, floored at 0.
func score(report gate.QualityReport) float64 {
	s := 100.0

	if report.HasIssue(gate.IssueTooFewSamples) {
		s -= 40
	}
	if report.HasIssue(gate.IssueHighCV) {
		s -= 30
	}
	if report.HasIssue(gate.IssueManyOutliers) {
		s -= 20
	}

	if s < 0 {
		s = 0
	}
	return s
}
