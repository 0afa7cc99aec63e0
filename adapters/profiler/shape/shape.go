// Package shape computes distribution-shape diagnostics over a numeric
// field's sampled values: skewness, excess kurtosis, and a normality
// heuristic. This is a supplementary QA signal (SPEC_FULL.md supplement 1)
// grounded on the teacher's distribution-fit diagnostics; it never feeds
// generation, only ConstraintsProfile.NumericRangeStats.ShapeMarkers.
package shape

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"docsynth/domain/constraints"
)

// Compute returns shape markers for values, or nil when there are too few
// samples (fewer than 4) to say anything meaningful.
func Compute(values []float64) *constraints.ShapeMarkers {
	if len(values) < 4 {
		return nil
	}
	mean, std := stat.MeanStdDev(values, nil)
	if std == 0 {
		return &constraints.ShapeMarkers{Skewness: 0, Kurtosis: 0, IsNormal: true}
	}
	skew := stat.Skew(values, nil)
	kurt := stat.ExKurtosis(values, nil)

	// Fit a normal with the sample's mean/stddev and compare its CDF against
	// the empirical CDF at every sorted sample value — a coarse Kolmogorov-
	// Smirnov-style check, not a full test.
	fit := distuv.Normal{Mu: mean, Sigma: std}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	maxGap := 0.0
	for i, v := range sorted {
		empirical := float64(i+1) / float64(len(sorted))
		gap := math.Abs(fit.CDF(v) - empirical)
		if gap > maxGap {
			maxGap = gap
		}
	}

	isNormal := math.Abs(skew) < 0.5 && math.Abs(kurt) < 1.0 && maxGap < 0.15
	return &constraints.ShapeMarkers{
		Skewness: skew,
		Kurtosis: kurt,
		IsNormal: isNormal,
	}
}
