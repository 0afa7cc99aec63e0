// Package semanticstats implements the semantic-stats accumulator of spec
// §4.6 item 6: it independently tallies per-path validator hits against the
// semantic detector catalog so the profiler can report a best semantic
// label and confidence per path, decoupled from the inferencer's own
// sample retention.
package semanticstats

import (
	"docsynth/domain/constraints"
	"docsynth/domain/document"
	"docsynth/domain/semantic"
)

// Accumulator tallies, per path, how many sampled string values each
// catalog detector's validator accepts.
type Accumulator struct {
	catalog []semantic.Detector
	hits    map[document.Path]map[semantic.Label]int
	total   map[document.Path]int
}

// New creates an empty Accumulator over catalog.
func New(catalog []semantic.Detector) *Accumulator {
	return &Accumulator{
		catalog: catalog,
		hits:    make(map[document.Path]map[semantic.Label]int),
		total:   make(map[document.Path]int),
	}
}

// Observe records one string value seen at path.
func (a *Accumulator) Observe(path document.Path, value string) {
	a.total[path]++
	for _, d := range a.catalog {
		if d.Validate(value) {
			byLabel, ok := a.hits[path]
			if !ok {
				byLabel = make(map[semantic.Label]int)
				a.hits[path] = byLabel
			}
			byLabel[d.Label]++
		}
	}
}

// GetProfile finalizes per-path best-label stats (spec §4.6: "Semantic"
// section of ConstraintsProfile). The best label is the one with the most
// hits; confidence is hits/total.
func (a *Accumulator) GetProfile() map[string]constraints.SemanticStats {
	out := make(map[string]constraints.SemanticStats, len(a.hits))
	for path, byLabel := range a.hits {
		total := a.total[path]
		var best semantic.Label
		bestHits := 0
		for label, hits := range byLabel {
			if hits > bestHits {
				best, bestHits = label, hits
			}
		}
		if bestHits == 0 {
			continue
		}
		out[path.String()] = constraints.SemanticStats{
			Label:      string(best),
			Hits:       bestHits,
			Total:      total,
			Confidence: float64(bestHits) / float64(total),
		}
	}
	return out
}
