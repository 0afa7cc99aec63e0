package dynamickey

import (
	"sort"
	"strconv"

	"docsynth/domain/document"
	"docsynth/domain/freq"
	"docsynth/domain/pattern"
	"docsynth/domain/schema"
)

// Result bundles the metadata and value schema GetStats produces for one
// Dynamic path (spec §4.4 "Finalization").
type Result struct {
	Metadata    *schema.DynamicKeyMetadata
	ValueSchema *schema.DynamicKeyValueSchema
}

// GetStats visits every non-root path shallowest-first, classifying each as
// Dynamic (already promoted, or now meeting the promotion criteria on the
// final key sample) and synthesizing its Result (spec §4.4 "Finalization").
// Ordering is deterministic: shallowest paths first, then lexical.
func (a *Accumulator) GetStats() map[document.Path]*Result {
	out := make(map[document.Path]*Result)
	for _, p := range sortedPaths(a.stats) {
		if p == document.Root {
			continue
		}
		st := a.stats[p]
		if !st.isObject {
			continue
		}
		if !st.isDynamic {
			a.maybePromote(p, st)
		}
		if !st.isDynamic {
			continue
		}
		out[p] = a.buildResult(p, st)
	}
	return out
}

func (a *Accumulator) buildResult(p document.Path, st *pathStat) *Result {
	det := pattern.DetectDynamicKeys(st.uniqueKeysOrder, pattern.DetectionConfig{
		Threshold:           a.cfg.Threshold,
		MinPatternMatch:     a.cfg.MinPatternMatch,
		ConfidenceThreshold: a.cfg.ConfidenceThreshold,
	}, a.cfg.Catalog)

	dist := freq.New()
	for n, c := range st.keyCounts {
		dist.UpdateBy(strconv.Itoa(n), c)
	}
	fstats, _ := dist.Stats()

	examples := st.uniqueKeysOrder
	if len(examples) > 10 {
		examples = examples[:10]
	}
	exampleCopy := append([]string(nil), examples...)

	meta := &schema.DynamicKeyMetadata{
		Enabled:        true,
		Confidence:     det.Confidence,
		ConfidenceTier: det.ConfidenceTier,
		CustomPattern:  det.CustomPattern,
		KeyCountDistribution: dist.Counts(),
		KeyCountStats: schema.KeyCountStats{
			Min: fstats.Min, Max: fstats.Max, Median: fstats.Median, P95: fstats.P95,
			Total: fstats.Total, Unique: fstats.Unique,
		},
		DocumentsObserved: st.documentCount,
		TotalUniqueKeys:   st.totalUniqueKeys,
		ExampleKeys:       exampleCopy,
	}
	if det.BestMatch != nil {
		name := det.BestMatch.Name
		meta.Pattern = &name
	}

	valueSchema := a.buildValueSchema(p)
	meta.CustomPattern = det.CustomPattern

	return &Result{Metadata: meta, ValueSchema: valueSchema}
}

// buildValueSchema implements spec §4.4 "Value schema synthesis": it uses
// the aggregated stats at p.* to build a multi-type value model ordered by
// observed frequency.
func (a *Accumulator) buildValueSchema(p document.Path) *schema.DynamicKeyValueSchema {
	wildcard := p.Wildcard()
	st, ok := a.stats[wildcard]
	if !ok {
		return &schema.DynamicKeyValueSchema{}
	}

	total := 0
	for _, c := range st.valueTypeCounts {
		total += c
	}

	type typeCount struct {
		kind  document.Kind
		count int
	}
	tcs := make([]typeCount, 0, len(st.valueTypeCounts))
	for k, c := range st.valueTypeCounts {
		tcs = append(tcs, typeCount{k, c})
	}
	sort.Slice(tcs, func(i, j int) bool {
		if tcs[i].count != tcs[j].count {
			return tcs[i].count > tcs[j].count
		}
		return tcs[i].kind < tcs[j].kind
	})

	out := &schema.DynamicKeyValueSchema{}
	for _, tc := range tcs {
		out.Types = append(out.Types, string(tc.kind))
		prob := 0.0
		if total > 0 {
			prob = float64(tc.count) / float64(total)
		}
		out.Probabilities = append(out.Probabilities, prob)
		out.Schemas = append(out.Schemas, a.nodeForType(wildcard, tc.kind, st))
	}
	if len(out.Types) > 0 {
		out.DominantType = out.Types[0]
		out.IsUniformType = len(out.Types) == 1
	}
	return out
}

func (a *Accumulator) nodeForType(path document.Path, kind document.Kind, st *pathStat) *schema.Node {
	switch kind {
	case document.KindObject:
		if st.isDynamic {
			inner := a.buildValueSchema(path)
			return &schema.Node{
				Type: "object",
				XDynamicKeys: &schema.XDynamicKeys{
					Enabled:     true,
					ValueSchema: inner,
				},
			}
		}
		props := make(map[string]*schema.Node)
		var required []string
		for child := range a.stats {
			if child.IsDirectChild(path) {
				key := childKey(child, path)
				props[key] = a.nodeForPath(child)
				required = append(required, key)
			}
		}
		sort.Strings(required)
		return &schema.Node{
			Type:                 "object",
			Properties:           props,
			Required:             required,
			AdditionalProperties: &schema.AdditionalProps{Allowed: false},
		}
	case document.KindArray:
		return &schema.Node{Type: "array"}
	default:
		return scalarNode(kind)
	}
}

func (a *Accumulator) nodeForPath(p document.Path) *schema.Node {
	st, ok := a.stats[p]
	if !ok {
		return &schema.Node{Type: "null"}
	}
	best := document.KindNull
	bestCount := -1
	for k, c := range st.valueTypeCounts {
		if c > bestCount {
			best, bestCount = k, c
		}
	}
	return a.nodeForType(p, best, st)
}

func scalarNode(kind document.Kind) *schema.Node {
	switch kind {
	case document.KindBool:
		return &schema.Node{Type: "boolean"}
	case document.KindInt:
		return &schema.Node{Type: "integer"}
	case document.KindFloat:
		return &schema.Node{Type: "number"}
	case document.KindString:
		return &schema.Node{Type: "string"}
	case document.KindObjectID:
		return &schema.Node{Type: "string", Format: "objectid"}
	case document.KindTimestamp:
		return &schema.Node{Type: "string", Format: "date-time"}
	case document.KindDecimal:
		return &schema.Node{Type: "string", Format: "decimal"}
	case document.KindBinary:
		return &schema.Node{Type: "string", Format: "base64"}
	default:
		return &schema.Node{Type: "null"}
	}
}

func childKey(child, parent document.Path) string {
	full := child.String()
	base := parent.String()
	suffix := full[len(base):]
	if len(suffix) > 0 && suffix[0] == '.' {
		suffix = suffix[1:]
	}
	return suffix
}
