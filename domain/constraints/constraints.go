// Package constraints holds ConstraintsProfile, the bundle of per-path
// statistics the profiler aggregator produces and the synthesizer consumes
// alongside the inferred schema (spec §3, §4.6).
package constraints

import "docsynth/domain/schema"

// ConstraintsProfile is persisted as constraints.json (spec §6).
type ConstraintsProfile struct {
	ArrayLengths map[string]ArrayLengthStats  `json:"array_lengths"`
	Numeric      map[string]NumericRangeStats `json:"numeric"`
	Semantic     map[string]SemanticStats     `json:"semantic"`
	DynamicKeys  map[string]*schema.DynamicKeyMetadata `json:"dynamic_keys"`

	SizeBuckets []SizeBucket `json:"size_buckets"`
	KeyFieldPolicy KeyFieldPolicy `json:"key_field_policy"`
}

// ArrayLengthStats summarizes the observed length distribution of an array
// field at a path.
type ArrayLengthStats struct {
	Distribution map[string]int `json:"distribution"`
	Min, Max     int            `json:"min_max_ignored_use_stats"`
	Stats        FreqStats      `json:"stats"`
}

// FreqStats mirrors freq.Stats, decoupled so this package has no dependency
// on domain/freq beyond what's needed to serialize.
type FreqStats struct {
	Min, Max, Median, P95 float64
	Total                 int
	Unique                int
}

// NumericRangeStats summarizes the observed value range of a numeric field.
type NumericRangeStats struct {
	Min, Max, Mean, StdDev float64 `json:"min_max_mean_stddev"`

	// ShapeMarkers is the supplemental distribution-shape diagnostic
	// (SPEC_FULL.md supplement 1), computed from gonum/montanaflynn and
	// carried as an informational QA signal only — it does not feed
	// generation.
	ShapeMarkers *ShapeMarkers `json:"shape_markers,omitempty"`
}

// ShapeMarkers are skewness/kurtosis/normality diagnostics.
type ShapeMarkers struct {
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
	IsNormal bool    `json:"is_normal"`
}

// SemanticStats tallies per-path validator hits (spec §4.6 item 6).
type SemanticStats struct {
	Label      string  `json:"label"`
	Hits       int     `json:"hits"`
	Total      int     `json:"total"`
	Confidence float64 `json:"confidence"`
}

// SizeBucket is one third of the document-size histogram (spec §4.6).
type SizeBucket struct {
	Label       string  `json:"label"` // "small"|"medium"|"large"
	LowerBound  float64 `json:"lower_bound"`
	UpperBound  float64 `json:"upper_bound"`
	Count       int     `json:"count"`
	Probability float64 `json:"probability"`
}

// SizeProxy names the document-size measurement strategy (spec §4.6, §6).
type SizeProxy string

const (
	SizeProxyLeafFieldCount SizeProxy = "leafFieldCount"
	SizeProxyArrayLengthSum SizeProxy = "arrayLengthSum"
	SizeProxyByteSize       SizeProxy = "byteSize"
)

// KeyFieldPolicy records the uniqueness policy for _id and any additional
// configured key fields (spec §4.6, §4.7).
type KeyFieldPolicy struct {
	PrimaryKeyField  string   `json:"primary_key_field"`
	AdditionalFields []string `json:"additional_fields,omitempty"`
}
