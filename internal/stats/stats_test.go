package stats

import (
	"math"
	"testing"
)

func TestAggregates(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	if got := Mean(values); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("Mean = %v, want 2.5", got)
	}
	if got := Median(values); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("Median = %v, want 2.5", got)
	}
	if got := Median([]float64{3, 1, 2}); got != 2 {
		t.Errorf("Median of odd-length slice = %v, want 2", got)
	}
	if got := Min(values); got != 1 {
		t.Errorf("Min = %v, want 1", got)
	}
	if got := Max(values); got != 4 {
		t.Errorf("Max = %v, want 4", got)
	}

	// Sample stddev of 1..4 is sqrt(5/3)
	if got := StdDev(values); math.Abs(got-math.Sqrt(5.0/3.0)) > 1e-9 {
		t.Errorf("StdDev = %v, want sqrt(5/3)", got)
	}
}

func TestAggregatesEmpty(t *testing.T) {
	if Mean(nil) != 0 || Median(nil) != 0 || Min(nil) != 0 || Max(nil) != 0 || StdDev(nil) != 0 {
		t.Error("aggregates over empty input should be 0")
	}
}

func TestMedianDoesNotMutate(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("Median reordered its input: %v", values)
	}
}

func TestHistogram(t *testing.T) {
	bins := Histogram([]float64{1, 2, 3, 4}, 4)
	if len(bins) != 4 {
		t.Fatalf("expected 4 bins, got %d", len(bins))
	}

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 4 {
		t.Errorf("counts sum to %d, want 4", total)
	}

	// Max value lands in the last bin, not beyond it
	if bins[3].Count == 0 {
		t.Error("value equal to max should fall into the last bin")
	}
	if bins[0].Lower != 1 || bins[3].Upper != 4 {
		t.Errorf("bins should cover [1, 4], got [%v, %v]", bins[0].Lower, bins[3].Upper)
	}
}

func TestHistogramConstantValues(t *testing.T) {
	bins := Histogram([]float64{2, 2, 2}, 3)
	if bins == nil {
		t.Fatal("constant input should still produce bins")
	}
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 3 {
		t.Errorf("counts sum to %d, want 3", total)
	}
}

func TestHistogramDegenerate(t *testing.T) {
	if Histogram(nil, 4) != nil {
		t.Error("no values should produce no bins")
	}
	if Histogram([]float64{1}, 0) != nil {
		t.Error("zero bins should produce no bins")
	}
}
