// Package pipeline wires the staged dataflow spec §5 describes: source →
// (inferencer + profiler in parallel) → synthesizer → generator → sink,
// with a validator observing the generated stream. Normalization (spec §4.4
// item 4) happens inside the source adapter itself (adapters/source,
// adapters/normalizer), so RunProfile's documents arrive already canonical.
// Stages communicate through bounded channels; cancellation propagates via
// context and golang.org/x/sync/errgroup, mirroring the teacher's own
// weighted-concurrency orchestration in internal/referee and internal/
// validation (there hand-rolled with semaphore.Weighted; here errgroup is
// the better fit since every stage is a single long-lived worker, not a
// pool of independent short jobs).
package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"docsynth/domain/constraints"
	"docsynth/domain/document"
	"docsynth/domain/schema"
	"docsynth/ports"
)

// QueueDepth is the bounded-queue capacity between pipeline stages (spec §5
// "bounded queues providing backpressure").
const QueueDepth = 64

// ProfileResult bundles the two artifacts the profiling stage produces plus
// any non-fatal warnings accumulated along the way (spec §7 "warnings are
// aggregated and returned in the final result metadata").
type ProfileResult struct {
	Inferred *schema.InferredSchema
	Profile  *constraints.ConstraintsProfile
	Warnings []string
}

// RunProfile drains src and fans the document stream out to inf and prof
// concurrently (spec §5's "(inferencer + profiler)" stage). Source adapters
// are responsible for normalizing vendor tags before Next returns (spec §4.4
// item 4, via domain/document.Normalize / adapters/normalizer), so this
// stage consumes already-canonical documents. Document order from the
// source is preserved into each fan-out branch (spec §5 "Ordering"); the two
// branches run independently of each other.
func RunProfile(ctx context.Context, src ports.DocumentSource, inf ports.InferencerPort, prof ports.ProfilerPort) (*ProfileResult, error) {
	inferCh := make(chan document.Document, QueueDepth)
	profileCh := make(chan document.Document, QueueDepth)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(inferCh)
		defer close(profileCh)
		for {
			doc, ok, err := src.Next(gctx)
			if err != nil {
				return fmt.Errorf("pipeline: source: %w", err)
			}
			if !ok {
				return nil
			}
			select {
			case inferCh <- doc:
			case <-gctx.Done():
				return gctx.Err()
			}
			select {
			case profileCh <- doc:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	g.Go(func() error {
		for doc := range inferCh {
			if err := inf.Observe(doc); err != nil {
				return fmt.Errorf("pipeline: inferencer: %w", err)
			}
		}
		return nil
	})

	g.Go(func() error {
		for doc := range profileCh {
			if err := prof.Observe(doc); err != nil {
				return fmt.Errorf("pipeline: profiler: %w", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	inferred, infWarnings, err := inf.GetStats()
	if err != nil {
		return nil, fmt.Errorf("pipeline: inferencer finalize: %w", err)
	}
	profile, profWarnings, err := prof.GetProfile()
	if err != nil {
		return nil, fmt.Errorf("pipeline: profiler finalize: %w", err)
	}

	warnings := make([]string, 0, len(infWarnings)+len(profWarnings))
	warnings = append(warnings, infWarnings...)
	warnings = append(warnings, profWarnings...)

	return &ProfileResult{Inferred: inferred, Profile: profile, Warnings: warnings}, nil
}

// GenerateResult bundles the validation report and generator warnings from
// a generate-and-validate run.
type GenerateResult struct {
	Report   ports.ValidationReport
	Warnings []string
}

// RunGenerate drains gen's output through sink, validating each document
// along the way with val (spec §4.8/§4.9's "generator → sink" stage, with
// the validator observing the same stream rather than a separate pass).
func RunGenerate(ctx context.Context, gen ports.GeneratorPort, sink ports.DocumentSink, val ports.ValidatorPort, count int) (*GenerateResult, error) {
	docs, errs := gen.Generate(ctx, count)

	for doc := range docs {
		val.Validate(doc)
		if err := sink.Write(ctx, doc); err != nil {
			return nil, fmt.Errorf("pipeline: sink: %w", err)
		}
	}

	if err := <-errs; err != nil {
		return nil, fmt.Errorf("pipeline: generator: %w", err)
	}

	var warnings []string
	if w, ok := gen.(interface{ Warnings() []string }); ok {
		warnings = w.Warnings()
	}

	return &GenerateResult{Report: val.Report(), Warnings: warnings}, nil
}
