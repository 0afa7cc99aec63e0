// Package dynamickey implements the hard subsystem of spec §4.4: a
// per-path Static/Dynamic state machine that promotes object fields used as
// maps keyed by generated identifiers, migrates their accumulated
// statistics to a wildcard path on promotion, and synthesizes a
// DynamicKeyValueSchema once the stream is finalized.
package dynamickey

import (
	"sort"

	"docsynth/domain/core"
	"docsynth/domain/document"
	"docsynth/domain/pattern"
)

// SampleCap bounds the unique-key sample retained per path (spec §4.4
// "sample cap (2000) guards memory").
const SampleCap = 2000

// Config carries the promotion thresholds and catalog spec §4.4/§6 define.
type Config struct {
	Threshold           int
	MinPatternMatch     float64
	ConfidenceThreshold float64
	ForceStaticPaths    []document.Path
	ForceDynamicPaths   []document.Path
	Catalog             *pattern.Catalog
}

// Validate enforces spec §4.4 "Failure semantics": threshold < 2,
// minPatternMatch out of range, and paths present in both force lists are
// all configuration errors.
func (c Config) Validate() error {
	if c.Threshold < 2 {
		return core.ErrInvalidThreshold
	}
	if c.MinPatternMatch < 0 || c.MinPatternMatch > 1 {
		return core.ErrInvalidRatio
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return core.ErrInvalidRatio
	}
	static := make(map[document.Path]bool, len(c.ForceStaticPaths))
	for _, p := range c.ForceStaticPaths {
		static[p] = true
	}
	for _, p := range c.ForceDynamicPaths {
		if static[p] {
			return core.ErrPathOverlap
		}
	}
	return nil
}

func (c Config) isForceStatic(p document.Path) bool {
	for _, fp := range c.ForceStaticPaths {
		if fp == p {
			return true
		}
	}
	return false
}

func (c Config) isForceDynamic(p document.Path) bool {
	for _, fp := range c.ForceDynamicPaths {
		if fp == p {
			return true
		}
	}
	return false
}

func sortedPaths(m map[document.Path]*pathStat) []document.Path {
	out := make([]document.Path, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return depth(out[i]) < depth(out[j]) || (depth(out[i]) == depth(out[j]) && out[i] < out[j])
	})
	return out
}

func depth(p document.Path) int {
	d := 0
	for _, r := range p.String() {
		if r == '.' {
			d++
		}
	}
	return d
}
