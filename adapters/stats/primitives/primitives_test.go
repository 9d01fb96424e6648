package primitives

import (
	"math"
	"testing"
)

func TestMedianOddEven(t *testing.T) {
	odd, err := Median([]float64{3, 1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if odd != 2 {
		t.Errorf("expected median 2, got %v", odd)
	}

	even, err := Median([]float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if even != 2.5 {
		t.Errorf("expected median 2.5, got %v", even)
	}
}

func TestMedianEmptySample(t *testing.T) {
	if _, err := Median(nil); err == nil {
		t.Error("expected error for empty sample")
	}
}

func TestMedianRejectsInvalidValues(t *testing.T) {
	cases := [][]float64{
		{1, math.NaN(), 3},
		{1, math.Inf(1), 3},
		{1, -2, 3},
	}
	for _, c := range cases {
		if _, err := Median(c); err == nil {
			t.Errorf("expected error for sample %v", c)
		}
	}
}

func TestPercentileBounds(t *testing.T) {
	x := []float64{10, 20, 30, 40, 50}
	if _, err := Percentile(x, -0.1); err == nil {
		t.Error("expected error for q < 0")
	}
	if _, err := Percentile(x, 1.1); err == nil {
		t.Error("expected error for q > 1")
	}

	p50, err := Percentile(x, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p50 != 30 {
		t.Errorf("expected p50=30, got %v", p50)
	}
}

func TestMADAllEqual(t *testing.T) {
	mad, err := MAD([]float64{5, 5, 5, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mad != 0 {
		t.Errorf("expected MAD 0 for all-equal sample, got %v", mad)
	}
}

func TestCVUndefinedOnZeroMean(t *testing.T) {
	if _, err := CV([]float64{0, 0, 0}); err == nil {
		t.Error("expected ErrUndefinedCV for zero-mean sample")
	}
}

func TestCVKnownSample(t *testing.T) {
	cv, err := CV([]float64{10, 10, 10, 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cv != 0 {
		t.Errorf("expected 0 CV for constant sample, got %v", cv)
	}
}

func TestQuartilesOrdering(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	q1, q3, err := Quartiles(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q1 >= q3 {
		t.Errorf("expected q1 < q3, got q1=%v q3=%v", q1, q3)
	}
}
