// Package normalizer wraps domain/document's vendor-tag normalization with
// per-path type-hint bookkeeping, the way gohypo's coercer wraps raw value
// parsing with an analysis summary the profiler adapter then consults.
package normalizer

import (
	"sync"

	"docsynth/domain/document"
)

// Normalizer maps vendor scalar types to their canonical representation
// (spec §4.4 item 4) and records, per field path passed to NormalizeAt,
// which document.Kind was observed, exposed through TypeHints. The
// inferencer and profiler do not read these hints; they walk the normalized
// documents themselves.
type Normalizer struct {
	mu    sync.Mutex
	hints map[document.Path]map[document.Kind]int
	warn  func(path document.Path, message string)
}

// New creates a Normalizer. warn, if non-nil, receives one call per
// traversal warning (spec §7 "Traversal warning" — malformed vendor tags,
// unrecognized additional keys — never aborts the run).
func New(warn func(path document.Path, message string)) *Normalizer {
	return &Normalizer{
		hints: make(map[document.Path]map[document.Kind]int),
		warn:  warn,
	}
}

// Normalize walks raw (a decoded JSON value, typically map[string]interface{}
// or []interface{} at the root) and returns the canonical document.Value,
// recording a type hint at Root for the resulting kind. Callers that already
// know the field path should use NormalizeAt.
func (n *Normalizer) Normalize(raw interface{}) document.Value {
	return n.NormalizeAt(document.Root, raw)
}

// NormalizeAt normalizes raw at path, recording a type hint there.
func (n *Normalizer) NormalizeAt(path document.Path, raw interface{}) document.Value {
	v := document.Normalize(raw, func(msg string) {
		if n.warn != nil {
			n.warn(path, msg)
		}
	})
	n.record(path, v.Kind)
	return v
}

func (n *Normalizer) record(path document.Path, kind document.Kind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	byKind, ok := n.hints[path]
	if !ok {
		byKind = make(map[document.Kind]int)
		n.hints[path] = byKind
	}
	byKind[kind]++
}

// TypeHints returns the accumulated per-path kind counts observed so far.
// The returned map is a snapshot copy, safe to retain.
func (n *Normalizer) TypeHints() map[document.Path]map[document.Kind]int {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make(map[document.Path]map[document.Kind]int, len(n.hints))
	for p, byKind := range n.hints {
		cp := make(map[document.Kind]int, len(byKind))
		for k, c := range byKind {
			cp[k] = c
		}
		out[p] = cp
	}
	return out
}
