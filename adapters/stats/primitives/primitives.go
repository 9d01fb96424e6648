// Package primitives implements the statistics primitives of C1: median,
// percentile, MAD, coefficient of variation, the Mann-Whitney U rank-sum
// test, and bootstrap resampling of the median difference. It stays pure
// and dependency-free of the gate domain types, composed by higher-level
// packages (quality, cascade) rather than importing them.
package primitives

import (
	"fmt"
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"perfgate/domain/core"
)

// validate rejects NaN, Inf, or negative measurements, and empty samples:
// any reduction touching NaN/inf propagates an INVALID_INPUT failure.
func validate(x []float64) error {
	if len(x) == 0 {
		return core.ErrEmptySample
	}
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.ErrInvalidInput
		}
		if v < 0 {
			return core.ErrNegativeValue
		}
	}
	return nil
}

// Median computes the linear-interpolation median (average of the two
// middle values for even-length samples).
func Median(x []float64) (float64, error) {
	if err := validate(x); err != nil {
		return 0, err
	}
	m, err := mstats.Median(mstats.Float64Data(x))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	return m, nil
}

// Percentile computes the q-th percentile (q in [0,1]) using linear
// interpolation between the two nearest ranks (the type-7 convention,
// matching R's default).
func Percentile(x []float64, q float64) (float64, error) {
	if err := validate(x); err != nil {
		return 0, err
	}
	if q < 0 || q > 1 {
		return 0, fmt.Errorf("%w: percentile q must be in [0,1], got %f", core.ErrInvalidInput, q)
	}
	return diffsPercentile(x, q)
}

// MAD computes the median absolute deviation from the sample median. The
// gate engine never divides by MAD — MAD is exposed here
// purely as a C1 primitive for callers (e.g. future quality diagnostics)
// that want a robust dispersion estimate without the divide-by-zero hazard
// that a normalized measure like a modified z-score would introduce.
func MAD(x []float64) (float64, error) {
	med, err := Median(x)
	if err != nil {
		return 0, err
	}
	deviations := make([]float64, len(x))
	for i, v := range x {
		deviations[i] = math.Abs(v - med)
	}
	return Median(deviations)
}

// Mean computes the arithmetic mean of x.
func Mean(x []float64) (float64, error) {
	if err := validate(x); err != nil {
		return 0, err
	}
	m, err := mstats.Mean(mstats.Float64Data(x))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	return m, nil
}

// CV computes the coefficient of variation (sample standard deviation,
// n-1, divided by the mean) expressed as a percent. Returns
// core.ErrUndefinedCV when the mean is zero.
func CV(x []float64) (float64, error) {
	if err := validate(x); err != nil {
		return 0, err
	}
	mean, err := mstats.Mean(mstats.Float64Data(x))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	if mean == 0 {
		return 0, core.ErrUndefinedCV
	}
	if len(x) < 2 {
		return 0, nil
	}
	sd, err := mstats.StandardDeviationSample(mstats.Float64Data(x))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	return (sd / mean) * 100.0, nil
}

// quartiles returns Q1 and Q3 using the same type-7 interpolation as
// Percentile, used by the IQR outlier screen in the quality gate (C2).
func Quartiles(x []float64) (q1, q3 float64, err error) {
	q1, err = Percentile(x, 0.25)
	if err != nil {
		return 0, 0, err
	}
	q3, err = Percentile(x, 0.75)
	if err != nil {
		return 0, 0, err
	}
	return q1, q3, nil
}

// sortedCopy returns an ascending-sorted copy of x, leaving x untouched
// (Sample order has no semantic meaning but callers should not observe
// mutation of their input slice).
func sortedCopy(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	sort.Float64s(out)
	return out
}
