package pattern

import "math"

// DetectionConfig carries the thresholds DetectDynamicKeys reasons over
// (spec §6 "Configuration"). It is a narrower view than the full dynamic-key
// config so this package has no dependency on the accumulator.
type DetectionConfig struct {
	Threshold          int     // minimum key count for "meetsCount"
	MinPatternMatch    float64 // minimum match ratio for "meetsPattern"
	ConfidenceThreshold float64
}

// Level categorizes a confidence score (spec §3 DynamicKeyMetadata).
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// ConfidenceLevel maps a [0,1] score to a categorical level: >= 0.8 high,
// >= 0.6 medium, else low.
func ConfidenceLevel(confidence float64) Level {
	switch {
	case confidence >= 0.8:
		return LevelHigh
	case confidence >= 0.6:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Detection is the outcome of DetectDynamicKeys.
type Detection struct {
	Detected       bool
	BestMatch      *Pattern // nil when the decision is driven by cardinality alone
	CustomPattern  string   // "HIGH_CARDINALITY" when BestMatch is nil but Detected is true
	Confidence     float64
	ConfidenceTier Level
	MatchRatio     float64
}

// DetectDynamicKeys implements the promotion decision of spec §4.2.
func DetectDynamicKeys(keys []string, cfg DetectionConfig, catalog *Catalog) Detection {
	best, matchRatio := catalog.BestMatch(keys)
	hasBest := len(catalog.Patterns) > 0

	meetsCount := len(keys) >= cfg.Threshold
	meetsPattern := matchRatio >= cfg.MinPatternMatch

	var confidence float64
	var customPattern string
	var bestPtr *Pattern
	neitherMet := !meetsCount && !meetsPattern

	switch {
	case neitherMet:
		confidence = matchRatio
		if hasBest {
			bp := best
			bestPtr = &bp
		}
	case meetsCount && meetsPattern:
		ratio := float64(len(keys)) / float64(cfg.Threshold)
		if ratio > 2 {
			confidence = matchRatio + math.Min(0.1, (ratio-2)*0.02)
		} else {
			confidence = matchRatio
		}
		bp := best
		bestPtr = &bp
	case meetsPattern && !meetsCount:
		confidence = math.Min(1.0, matchRatio+0.05)
		bp := best
		bestPtr = &bp
	case meetsCount && !meetsPattern:
		confidence = math.Min(0.9, cfg.ConfidenceThreshold+math.Log10(float64(len(keys))/float64(cfg.Threshold))*0.2)
		customPattern = string(HighCardinality)
		bestPtr = nil
	}

	// spec §4.2 rule 3: neither condition holding is an unconditional
	// non-detection, not just a low confidence score fed to the formula
	// below (a matchRatio just under MinPatternMatch could otherwise still
	// clear ConfidenceThreshold).
	detected := !neitherMet && confidence >= cfg.ConfidenceThreshold

	return Detection{
		Detected:       detected,
		BestMatch:      bestPtr,
		CustomPattern:  customPattern,
		Confidence:     confidence,
		ConfidenceTier: ConfidenceLevel(confidence),
		MatchRatio:     matchRatio,
	}
}
