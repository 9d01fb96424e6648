// Package tail implements the adaptive tail statistic (C4): the mean of
// the top-k slowest measurements in a sample, where k scales with sample
// size instead of pinning to a fixed percentile like p99 that is unstable
// on the small samples typical of CI runs.
package tail

import (
	"sort"

	"perfgate/domain/core"
)

// K computes the adaptive tail width for a sample of size n: ceil(n *
// TailKPct), clamped to [TailKMin, TailKMax] and never exceeding n itself.
func K(n int, kPct float64, kMin, kMax int) int {
	if n == 0 {
		return 0
	}
	k := int(ceilDiv(float64(n) * kPct))
	if k < kMin {
		k = kMin
	}
	if k > kMax {
		k = kMax
	}
	if k > n {
		k = n
	}
	return k
}

func ceilDiv(v float64) float64 {
	i := int64(v)
	if float64(i) < v {
		i++
	}
	return float64(i)
}

// Statistic computes the adaptive tail statistic: the arithmetic mean of
// the top-k largest values in sample, along with the k actually used.
func Statistic(sample []float64, kPct float64, kMin, kMax int) (value float64, k int, err error) {
	if len(sample) == 0 {
		return 0, 0, core.ErrEmptySample
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	k = K(len(sorted), kPct, kMin, kMax)
	if k == 0 {
		return 0, 0, core.ErrInsufficientData
	}

	top := sorted[len(sorted)-k:]
	sum := 0.0
	for _, v := range top {
		sum += v
	}
	return sum / float64(k), k, nil
}
