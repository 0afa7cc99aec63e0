// Package schema holds the two persistable artifacts spec §3 and §6 define:
// the InferredSchema (structural/statistical profile of the input) and the
// GenerationSchema (a draft-07 JSON Schema annotated with generator
// directives). Both are plain data — the logic that builds and walks them
// lives in adapters/inferencer, adapters/synthesizer and adapters/generator.
package schema

import "docsynth/domain/pattern"

// InferredSchema is the root artifact persisted as inferred.schema.json.
type InferredSchema struct {
	Count  int                        `json:"count"`
	Fields map[string]*InferredField `json:"fields"`
}

// InferredField is the polymorphic per-path record spec §3/§9 describes: a
// shared header (name/path/count/probability) plus a sum of type-specific
// payloads, modeled here as a tagged variant rather than inheritance.
type InferredField struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Total int    `json:"total"`

	Types []TypeRecord `json:"types"`

	// ArrayLengths is populated only when a "array" TypeRecord is present.
	ArrayLengths map[string]int `json:"array_lengths,omitempty"`

	// Nested holds child field records for "object" TypeRecords. When this
	// field's path is Dynamic, Nested is present but empty — downstream
	// synthesis recognizes the object from the type record alone (spec
	// §4.5 "inferencer strips the nested fields map").
	Nested map[string]*InferredField `json:"fields,omitempty"`
}

// TypeRecord is one type observed at a path, with its presence probability
// (count / parent.count) and whatever samples were retained.
type TypeRecord struct {
	Type        string `json:"type"` // "null","boolean","integer","number","string","objectid","timestamp","decimal","binary","array","object"
	Count       int    `json:"count"`
	Probability float64 `json:"probability"`
	Unique      bool    `json:"unique"`

	SampleValues []interface{} `json:"sample_values,omitempty"`

	// ValueDistribution is populated for string/number/integer records when
	// sample retention is enabled; the synthesizer uses it to detect enum
	// candidates (spec §4.7).
	ValueDistribution map[string]int `json:"value_distribution,omitempty"`

	SemanticLabel      string  `json:"semantic_label,omitempty"`
	SemanticConfidence float64 `json:"semantic_confidence,omitempty"`
}

// DynamicKeyMetadata is the descriptive record for a path the accumulator
// classified Dynamic (spec §3).
type DynamicKeyMetadata struct {
	Enabled        bool          `json:"enabled"`
	Pattern        *pattern.Name `json:"pattern,omitempty"`
	CustomPattern  string        `json:"custom_pattern,omitempty"`
	Confidence     float64       `json:"confidence"`
	ConfidenceTier pattern.Level `json:"confidence_level"`

	KeyCountDistribution map[string]int `json:"key_count_distribution"`
	KeyCountStats        KeyCountStats  `json:"key_count_stats"`

	DocumentsObserved int      `json:"documents_observed"`
	TotalUniqueKeys   int      `json:"total_unique_keys"`
	ExampleKeys       []string `json:"example_keys"`
}

// KeyCountStats mirrors freq.Stats but decoupled from that package so
// domain/schema has no dependency beyond domain/pattern.
type KeyCountStats struct {
	Min, Max, Median, P95 float64
	Total                 int
	Unique                int
}

// DynamicKeyValueSchema is the multi-type value model for keys under a
// Dynamic path (spec §3).
type DynamicKeyValueSchema struct {
	Types         []string      `json:"types"`
	Probabilities []float64     `json:"probabilities"`
	Schemas       []*Node       `json:"schemas"`
	IsUniformType bool          `json:"is_uniform_type"`
	DominantType  string        `json:"dominant_type"`
}
