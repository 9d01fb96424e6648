package primitives

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// RankSumU computes the Mann-Whitney U statistic for the target group, the
// one-sided p-value for the alternative "target stochastically greater than
// baseline", and the probability estimate P(T>B) = U_t / (|b|*|t|).
//
// Ranking uses mid-ranks for ties, which makes U_t/( |b|*|t| ) already
// account for "ties contribute 0.5 each" without any
// additional bookkeeping: summing mid-ranked U_t over all (target,baseline)
// pairs counts a strict win as 1 and a tie as 0.5 automatically.
//
// The p-value uses the exact null distribution when
// max(|b|,|t|) <= 20, otherwise the normal approximation with continuity
// correction and tie-adjusted variance.
func RankSumU(b, t []float64) (u, pGreater, probTGtB float64, err error) {
	if err := validate(b); err != nil {
		return 0, 0, 0, err
	}
	if err := validate(t); err != nil {
		return 0, 0, 0, err
	}

	nb, nt := len(b), len(t)
	ranks, tieSizes := midRanks(b, t)

	rSumT := 0.0
	for i := nb; i < nb+nt; i++ {
		rSumT += ranks[i]
	}

	uT := rSumT - float64(nt)*float64(nt+1)/2
	probTGtB = uT / (float64(nb) * float64(nt))

	if maxInt(nb, nt) <= 20 {
		pGreater = exactPGreater(uT, nt, nb)
	} else {
		pGreater = normalApproxPGreater(uT, nb, nt, tieSizes)
	}

	return uT, pGreater, probTGtB, nil
}

// midRanks ranks the combined (baseline, target) sample, assigning the
// average rank within each group of tied values. Indices [0,nb) are
// baseline, [nb,nb+nt) are target, matching input order.
func midRanks(b, t []float64) (ranks []float64, tieSizes []int) {
	nb, nt := len(b), len(t)
	combined := make([]float64, 0, nb+nt)
	combined = append(combined, b...)
	combined = append(combined, t...)

	order := make([]int, len(combined))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return combined[order[i]] < combined[order[j]] })

	ranks = make([]float64, len(combined))
	i := 0
	for i < len(order) {
		j := i
		for j < len(order) && combined[order[j]] == combined[order[i]] {
			j++
		}
		// Ranks i+1..j are tied; assign the average rank (1-indexed).
		avgRank := float64(i+1+j) / 2.0
		for k := i; k < j; k++ {
			ranks[order[k]] = avgRank
		}
		tieSizes = append(tieSizes, j-i)
		i = j
	}

	return ranks, tieSizes
}

// exactPGreater computes P(U_t >= observed) under the null hypothesis of no
// difference, using the exact distribution of the Wilcoxon rank-sum
// statistic (equivalent to Mann-Whitney U). m, n are the sample sizes of
// the group whose U is being tested and the other group, respectively.
func exactPGreater(observedU float64, m, n int) float64 {
	// The exact recursion operates on integer statistics; mid-rank ties can
	// make the observed U fractional (e.g. x.5), so round to the nearest
	// integer for the table lookup. This is a documented approximation for
	// tied data under the exact branch.
	u := int(math.Round(observedU))

	memo := make(map[[3]int]float64)
	total := choose(m+n, m)
	if total == 0 {
		return 1.0
	}

	tail := 0.0
	maxU := m * n
	for k := u; k <= maxU; k++ {
		tail += countWilcoxon(k, m, n, memo)
	}
	p := tail / total
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}

// countWilcoxon counts rank-sum arrangements achieving statistic k for
// sample sizes m and n (no ties), via the standard recursion
// c(k,m,n) = c(k-n,m-1,n) + c(k,m,n-1), base case m==0 or n==0.
func countWilcoxon(k, m, n int, memo map[[3]int]float64) float64 {
	if k < 0 || k > m*n {
		return 0
	}
	if m == 0 || n == 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	key := [3]int{k, m, n}
	if v, ok := memo[key]; ok {
		return v
	}
	v := countWilcoxon(k-n, m-1, n, memo) + countWilcoxon(k, m, n-1, memo)
	memo[key] = v
	return v
}

func choose(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1.0
	for i := 0; i < k; i++ {
		result *= float64(n-i) / float64(i+1)
	}
	return result
}

// normalApproxPGreater computes the normal approximation to P(U_t >=
// observed) with continuity correction and tie-adjusted variance.
func normalApproxPGreater(observedU float64, nb, nt int, tieSizes []int) float64 {
	n := float64(nb + nt)
	meanU := float64(nb) * float64(nt) / 2.0

	tieCorrection := 0.0
	for _, ts := range tieSizes {
		t := float64(ts)
		tieCorrection += t*t*t - t
	}

	variance := float64(nb) * float64(nt) / 12.0 * ((n + 1) - tieCorrection/(n*(n-1)))
	if variance <= 0 {
		return 0.5
	}
	sigma := math.Sqrt(variance)

	z := (observedU - meanU - 0.5) / sigma

	normal := distuv.Normal{Mu: 0, Sigma: 1}
	return 1 - normal.CDF(z)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
