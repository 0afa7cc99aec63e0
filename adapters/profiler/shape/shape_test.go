package shape

import (
	"math"
	"testing"
)

func TestComputeReturnsNilForTooFewSamples(t *testing.T) {
	if Compute([]float64{1, 2, 3}) != nil {
		t.Fatal("expected fewer than 4 samples to yield no shape markers")
	}
}

func TestComputeOfConstantValuesIsNormalWithZeroShape(t *testing.T) {
	markers := Compute([]float64{5, 5, 5, 5, 5})
	if markers == nil {
		t.Fatal("expected shape markers for a constant sample")
	}
	if markers.Skewness != 0 || markers.Kurtosis != 0 || !markers.IsNormal {
		t.Fatalf("expected zero skew/kurtosis and IsNormal=true for constant input, got %+v", markers)
	}
}

func TestComputeFlagsHeavilySkewedDataAsNotNormal(t *testing.T) {
	values := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 100}
	markers := Compute(values)
	if markers == nil {
		t.Fatal("expected shape markers to be computed")
	}
	if markers.IsNormal {
		t.Fatal("expected a heavily skewed sample to not be flagged normal")
	}
	if markers.Skewness <= 0 {
		t.Fatalf("expected positive skewness for a right-tailed sample, got %v", markers.Skewness)
	}
}

func TestComputeOfRoughlySymmetricDataHasLowSkew(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90}
	markers := Compute(values)
	if markers == nil {
		t.Fatal("expected shape markers to be computed")
	}
	if math.Abs(markers.Skewness) > 0.5 {
		t.Fatalf("expected near-zero skew for a symmetric linear ramp, got %v", markers.Skewness)
	}
}
