// Package synthesizer implements spec §4.7: it merges an InferredSchema and
// a ConstraintsProfile into a GenerationSchema, a JSON-Schema-draft-07
// document annotated with generator directives. Grounded on gohypo's
// ContractSynthesizer ("config-driven heuristic thresholds + reasoning per
// field"), generalized from contract-draft synthesis to schema synthesis.
package synthesizer

import (
	"math"

	"docsynth/domain/constraints"
	"docsynth/domain/schema"
)

// Config carries the synthesis heuristic thresholds (spec §4.7 "enum
// heuristic").
type Config struct {
	EnumCardinalityDivisor int // k <= ceil(count/EnumCardinalityDivisor) => enum candidate
	PrimaryKeyField        string
}

// DefaultConfig mirrors spec §6 defaults.
func DefaultConfig() Config {
	return Config{EnumCardinalityDivisor: 10, PrimaryKeyField: "_id"}
}

// Synthesizer implements ports.SynthesizerPort.
type Synthesizer struct {
	cfg Config
}

// New creates a Synthesizer.
func New(cfg Config) *Synthesizer {
	return &Synthesizer{cfg: cfg}
}

// Synthesize merges inferred and profile into a GenerationSchema (spec §4.7).
func (s *Synthesizer) Synthesize(inferred *schema.InferredSchema, profile *constraints.ConstraintsProfile) (*schema.GenerationSchema, error) {
	root := &schema.Node{
		Type:                 "object",
		Properties:           make(map[string]*schema.Node),
		AdditionalProperties: &schema.AdditionalProps{Allowed: false},
	}
	var required []string
	for name, field := range inferred.Fields {
		node := s.synthesizeField("", name, field, inferred.Count, profile)
		root.Properties[name] = node
		if field.Total >= inferred.Count {
			required = append(required, name)
		}
	}
	root.Required = required
	return schema.NewGenerationSchema(root), nil
}

// synthesizeField builds the Node for field, whose path is parentPath.name.
// parentCount is the number of times the parent scope was observed at all —
// the denominator for this field's presence probability (spec §4.7 "include
// each with its presence probability").
func (s *Synthesizer) synthesizeField(parentPath, name string, field *schema.InferredField, parentCount int, profile *constraints.ConstraintsProfile) *schema.Node {
	path := name
	if parentPath != "" {
		path = parentPath + "." + name
	}

	if meta, ok := profile.DynamicKeys[path]; ok && meta.Enabled {
		return &schema.Node{
			Type: "object",
			XDynamicKeys: &schema.XDynamicKeys{
				Enabled:  true,
				Metadata: meta,
			},
		}
	}

	dominant := dominantType(field)
	if dominant == nil {
		return &schema.Node{Type: "null"}
	}

	node := &schema.Node{Type: mapType(dominant.Type)}
	if parentCount > 0 {
		presence := float64(field.Total) / float64(parentCount)
		if presence > 1.0 {
			presence = 1.0
		}
		if presence < 1.0 {
			node.XPresenceProbability = &presence
		}
	}

	switch {
	case name == s.cfg.PrimaryKeyField || dominant.Type == "objectid":
		node.Type = "string"
		node.Format = "objectid"
	case dominant.Type == "timestamp":
		node.Format = "date-time"
	case dominant.Type == "decimal":
		node.Format = "decimal"
	case dominant.Type == "binary":
		node.Format = "base64"
	case dominant.SemanticLabel != "":
		node.Format = dominant.SemanticLabel
	}

	if dominant.Type == "array" {
		if al, ok := profile.ArrayLengths[path]; ok {
			node.XArrayLengthDistribution = distCopy(al.Distribution)
		}
		// Element typing falls back to string; a richer implementation
		// would infer it from sampled array elements recorded under path[].
		node.Items = &schema.Node{Type: "string"}
	}

	if dominant.Type == "object" {
		node.Properties = make(map[string]*schema.Node)
		var required []string
		for childName, child := range field.Nested {
			node.Properties[childName] = s.synthesizeField(path, childName, child, field.Total, profile)
			required = append(required, childName)
		}
		node.Required = required
		node.AdditionalProperties = &schema.AdditionalProps{Allowed: false}
	}

	if s.isEnumCandidate(dominant, field.Total) {
		node.XGenEnumDistribution = distCopy(dominant.ValueDistribution)
	}

	if n, ok := profile.Numeric[path]; ok && (dominant.Type == "number" || dominant.Type == "integer") {
		min, max := n.Min, n.Max
		node.Minimum = &min
		node.Maximum = &max
	}

	return node
}

// dominantType picks the highest-probability type record, matching the
// generator's own "sample a type by probability" behavior for the typical
// single-type case (spec §4.8).
func dominantType(field *schema.InferredField) *schema.TypeRecord {
	var best *schema.TypeRecord
	for i := range field.Types {
		t := &field.Types[i]
		if t.Type == "null" {
			continue
		}
		if best == nil || t.Probability > best.Probability {
			best = t
		}
	}
	if best == nil && len(field.Types) > 0 {
		best = &field.Types[0]
	}
	return best
}

// isEnumCandidate implements spec §4.7's enum heuristic: unique cardinality
// k <= ceil(count / divisor), all values hashable primitives (string/number
// keys already guarantee this since ValueDistribution keys are strings).
func (s *Synthesizer) isEnumCandidate(t *schema.TypeRecord, count int) bool {
	if len(t.ValueDistribution) == 0 {
		return false
	}
	if t.Type != "string" && t.Type != "number" && t.Type != "integer" {
		return false
	}
	threshold := math.Ceil(float64(count) / float64(s.cfg.EnumCardinalityDivisor))
	return float64(len(t.ValueDistribution)) <= threshold
}

func mapType(t string) string {
	switch t {
	case "objectid", "timestamp", "decimal", "binary":
		return "string"
	default:
		return t
	}
}

func distCopy(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
