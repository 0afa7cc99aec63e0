// Package wiring assembles the adapters named in internal/config.Config into
// the collaborators internal/pipeline drives, the way the teacher's own
// main.go builds its dependency graph by hand before handing it to the
// server/worker layer — generalized here into a reusable constructor so
// cmd/cli and cmd/api share one wiring path instead of duplicating it.
package wiring

import (
	"fmt"

	"docsynth/adapters/dynamickey"
	"docsynth/adapters/inferencer"
	"docsynth/adapters/profiler"
	"docsynth/adapters/rng"
	"docsynth/adapters/synthesizer"
	"docsynth/adapters/validator"
	"docsynth/domain/constraints"
	"docsynth/domain/document"
	"docsynth/domain/pattern"
	"docsynth/domain/schema"
	"docsynth/domain/semantic"
	"docsynth/internal/config"
	"docsynth/ports"
)

// ProfilingStage bundles the profiler and inferencer for one run, sharing a
// single dynamic-key accumulator between them (spec §4.5/§4.6).
type ProfilingStage struct {
	Profiler   *profiler.Profiler
	Inferencer *inferencer.Inferencer
	Warnings   []string
}

func dynamicConfig(cfg config.DynamicKeyConfig) (dynamickey.Config, error) {
	patterns := pattern.DefaultCatalog()
	for _, override := range cfg.PatternOverrides {
		replaced, err := pattern.Compile(pattern.Name(override.Name), override.Regex)
		if err != nil {
			return dynamickey.Config{}, fmt.Errorf("wiring: pattern override %s: %w", override.Name, err)
		}
		found := false
		for i, p := range patterns {
			if p.Name == replaced.Name {
				patterns[i] = replaced
				found = true
				break
			}
		}
		if !found {
			patterns = append(patterns, replaced)
		}
	}
	catalog, err := pattern.NewCatalog(patterns)
	if err != nil {
		return dynamickey.Config{}, fmt.Errorf("wiring: build pattern catalog: %w", err)
	}

	toPaths := func(ss []string) []document.Path {
		out := make([]document.Path, len(ss))
		for i, s := range ss {
			out[i] = document.Path(s)
		}
		return out
	}

	return dynamickey.Config{
		Threshold:           cfg.MinKeyCountForPromotion,
		MinPatternMatch:     0.8,
		ConfidenceThreshold: cfg.MinConfidence,
		ForceStaticPaths:    toPaths(cfg.ForceStatic),
		ForceDynamicPaths:   toPaths(cfg.ForceDynamic),
		Catalog:             catalog,
	}, nil
}

// NewProfilingStage builds a Profiler and an Inferencer that share one
// dynamic-key accumulator (adapters/profiler.Dynamic()), so the Inferencer's
// GetStats sees the same Static/Dynamic classification the Profiler's
// ConstraintsProfile was built from.
func NewProfilingStage(cfg *config.Config, keyPolicy constraints.KeyFieldPolicy) (*ProfilingStage, error) {
	dynCfg, err := dynamicConfig(cfg.Dynamic)
	if err != nil {
		return nil, err
	}

	var warnings []string
	warn := func(message string) { warnings = append(warnings, message) }

	prof, err := profiler.New(profiler.Config{
		SizeProxy:      profiler.SizeProxy(cfg.Profiling.SizeProxy),
		KeyFieldPolicy: keyPolicy,
		Dynamic:        dynCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("wiring: profiler: %w", err)
	}

	inf := inferencer.New(inferencer.Config{
		StoreValues:     true,
		SampleRetention: cfg.Profiling.SampleRetention,
		SemanticCatalog: semantic.DefaultCatalog(),
	}, prof.Dynamic(), warn)

	return &ProfilingStage{Profiler: prof, Inferencer: inf, Warnings: warnings}, nil
}

// NewSynthesizer builds the synthesizer with spec §6 defaults.
func NewSynthesizer() *synthesizer.Synthesizer {
	return synthesizer.New(synthesizer.DefaultConfig())
}

// NewGeneratorRNG builds the stdlib-backed RNGPort every Generator uses.
func NewGeneratorRNG() ports.RNGPort {
	return rng.New()
}

// NewValidator builds a Validator bound to genSchema under policy.
func NewValidator(genSchema *schema.GenerationSchema, policy constraints.KeyFieldPolicy) ports.ValidatorPort {
	return validator.New(genSchema, policy)
}
