package primitives

import (
	"math"
	"testing"
)

func TestRankSumUIdenticalSamples(t *testing.T) {
	b := []float64{10, 20, 30, 40, 50}
	tt := []float64{10, 20, 30, 40, 50}

	_, pGreater, probTGtB, err := RankSumU(b, tt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(probTGtB-0.5) > 1e-9 {
		t.Errorf("expected prob_t_gt_b = 0.5 for identical samples, got %v", probTGtB)
	}
	if pGreater < 0.4 {
		t.Errorf("expected a non-significant p-value for identical samples, got %v", pGreater)
	}
}

func TestRankSumUClearSeparation(t *testing.T) {
	b := []float64{1, 2, 3, 4, 5}
	tt := []float64{100, 101, 102, 103, 104}

	_, pGreater, probTGtB, err := RankSumU(b, tt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if probTGtB != 1.0 {
		t.Errorf("expected prob_t_gt_b = 1.0 for fully separated samples, got %v", probTGtB)
	}
	if pGreater > 0.05 {
		t.Errorf("expected a significant p-value for fully separated samples, got %v", pGreater)
	}
}

// TestRankSumUSymmetry checks property P7: swapping inputs complements
// prob_t_gt_b (up to tie contributions).
func TestRankSumUSymmetry(t *testing.T) {
	b := []float64{10, 12, 14, 9, 11, 13, 15, 8, 16, 10}
	tt := []float64{20, 19, 22, 18, 21, 23, 17, 24, 16, 20}

	_, _, probTGtB, err := RankSumU(b, tt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _, probBGtT, err := RankSumU(tt, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs((probTGtB+probBGtT)-1.0) > 1e-9 {
		t.Errorf("expected prob_t_gt_b + prob_b_gt_t = 1, got %v + %v", probTGtB, probBGtT)
	}
}

func TestRankSumUNormalApproximationBranch(t *testing.T) {
	b := make([]float64, 25)
	tt := make([]float64, 25)
	for i := range b {
		b[i] = float64(i)
		tt[i] = float64(i) + 50
	}

	_, pGreater, probTGtB, err := RankSumU(b, tt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if probTGtB != 1.0 {
		t.Errorf("expected prob_t_gt_b = 1.0, got %v", probTGtB)
	}
	if pGreater > 0.01 {
		t.Errorf("expected small p-value under normal approximation, got %v", pGreater)
	}
}
