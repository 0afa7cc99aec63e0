package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"docsynth/adapters/artifactrepo/file"
	"docsynth/adapters/emitter"
	"docsynth/adapters/generator"
	"docsynth/adapters/normalizer"
	"docsynth/adapters/source"
	"docsynth/adapters/validator/report"
	"docsynth/domain/constraints"
	"docsynth/domain/document"
	"docsynth/internal/config"
	apperrors "docsynth/internal/errors"
	"docsynth/internal/pipeline"
	"docsynth/internal/wiring"
	"docsynth/ports"
)

// Exit codes per spec §6.
const (
	exitOK                = 0
	exitConfigError       = 2
	exitSourceFailure     = 3
	exitValidationFailure = 4
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := &cobra.Command{
		Use:   "docsynth-cli",
		Short: "Profile a document stream and synthesize a matching one",
	}

	var runID string
	rootCmd.PersistentFlags().StringVar(&runID, "run", "", "run identifier for artifact storage (default: a generated UUID)")

	rootCmd.AddCommand(
		newProfileCmd(&runID),
		newSynthesizeCmd(&runID),
		newGenerateCmd(&runID),
		newValidateCmd(&runID),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}
	return exitOK
}

// validationFailureError marks a run that completed but produced a failing
// ports.ValidationReport (spec §6 exit code 4), distinct from the fatal
// configuration/source errors that abort a run before it finishes.
type validationFailureError struct {
	failed int
}

func (e *validationFailureError) Error() string {
	return fmt.Sprintf("validation failed for %d document(s)", e.failed)
}

func exitCodeFor(err error) int {
	if _, ok := err.(*validationFailureError); ok {
		return exitValidationFailure
	}
	switch {
	case apperrors.IsKind(err, apperrors.KindSource):
		return exitSourceFailure
	default:
		return exitConfigError
	}
}

func resolveRunID(runID string) string {
	if runID != "" {
		return runID
	}
	return uuid.NewString()
}

func openSource(cfg *config.Config) (ports.DocumentSource, error) {
	r, err := openReader(cfg.Source.Path)
	if err != nil {
		return nil, apperrors.SourceError("opening document source", err)
	}
	norm := normalizer.New(func(path document.Path, message string) {
		fmt.Fprintln(os.Stderr, apperrors.TraversalWarning(string(path), message))
	})
	return source.NewNDJSON(r, norm), nil
}

func openSink(path, format string) (ports.DocumentSink, error) {
	w, err := openWriter(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case "json-array":
		return emitter.NewJSONArray(w)
	default:
		return emitter.NewNDJSON(w), nil
	}
}

func newProfileCmd(runID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Stream a document source through the inferencer and profiler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd.Context(), resolveRunID(*runID))
		},
	}
}

func runProfile(ctx context.Context, runID string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	policy := constraints.KeyFieldPolicy{PrimaryKeyField: "_id"}
	stage, err := wiring.NewProfilingStage(cfg, policy)
	if err != nil {
		return apperrors.Wrap(err, "building profiling stage")
	}

	result, err := pipeline.RunProfile(ctx, src, stage.Inferencer, stage.Profiler)
	if err != nil {
		return apperrors.SourceError("profiling run failed", err)
	}

	repo, err := file.New(cfg.Output.Dir)
	if err != nil {
		return apperrors.Wrap(err, "opening artifact repository")
	}
	if err := repo.SaveInferredSchema(ctx, runID, result.Inferred); err != nil {
		return apperrors.Wrap(err, "saving inferred schema")
	}
	if err := repo.SaveConstraints(ctx, runID, result.Profile); err != nil {
		return apperrors.Wrap(err, "saving constraints profile")
	}

	for _, w := range append(stage.Warnings, result.Warnings...) {
		fmt.Fprintln(os.Stderr, w)
	}
	fmt.Printf("profile run %s complete; artifacts written to %s\n", runID, cfg.Output.Dir)
	return nil
}

func newSynthesizeCmd(runID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "synthesize",
		Short: "Merge an inferred schema and constraints profile into a generation schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynthesize(cmd.Context(), resolveRunID(*runID))
		},
	}
}

func runSynthesize(ctx context.Context, runID string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	repo, err := file.New(cfg.Output.Dir)
	if err != nil {
		return apperrors.Wrap(err, "opening artifact repository")
	}
	inferred, err := repo.LoadInferredSchema(ctx, runID)
	if err != nil {
		return apperrors.Wrap(err, "loading inferred schema")
	}
	profile, err := repo.LoadConstraints(ctx, runID)
	if err != nil {
		return apperrors.Wrap(err, "loading constraints profile")
	}

	genSchema, err := wiring.NewSynthesizer().Synthesize(inferred, profile)
	if err != nil {
		return apperrors.Wrap(err, "synthesizing generation schema")
	}

	if err := repo.SaveGenerationSchema(ctx, runID, genSchema); err != nil {
		return apperrors.Wrap(err, "saving generation schema")
	}
	fmt.Printf("synthesize run %s complete\n", runID)
	return nil
}

func newGenerateCmd(runID *string) *cobra.Command {
	var seed int64
	var count int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic document stream from a generation schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), resolveRunID(*runID), seed, count)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed (spec §4.8.1 reproducibility)")
	cmd.Flags().IntVar(&count, "count", 100, "number of documents to generate")
	return cmd
}

func runGenerate(ctx context.Context, runID string, seed int64, count int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	repo, err := file.New(cfg.Output.Dir)
	if err != nil {
		return apperrors.Wrap(err, "opening artifact repository")
	}
	genSchema, err := repo.LoadGenerationSchema(ctx, runID)
	if err != nil {
		return apperrors.Wrap(err, "loading generation schema")
	}

	sink, err := openSink(cfg.Output.GeneratedOut, cfg.Output.Format)
	if err != nil {
		return apperrors.Wrap(err, "opening generated-output sink")
	}
	defer sink.Close()

	policy := constraints.KeyFieldPolicy{PrimaryKeyField: "_id"}
	gen := generator.New(genSchema, wiring.NewGeneratorRNG(), generator.Config{Seed: seed})
	val := wiring.NewValidator(genSchema, policy)

	result, err := pipeline.RunGenerate(ctx, gen, sink, val, count)
	if err != nil {
		return apperrors.Wrap(err, "generate run failed")
	}

	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, w)
	}
	if result.Report.DocumentsFailed > 0 {
		fmt.Fprintln(os.Stderr, report.ToMarkdown(result.Report, 25))
		return &validationFailureError{failed: result.Report.DocumentsFailed}
	}
	fmt.Printf("generate run %s complete; %d document(s) written\n", runID, result.Report.DocumentsChecked)
	return nil
}

func newValidateCmd(runID *string) *cobra.Command {
	var sourcePath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an existing document stream against a generation schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), resolveRunID(*runID), sourcePath)
		},
	}

	cmd.Flags().StringVar(&sourcePath, "source", "-", "document stream to validate; \"-\" means stdin")
	return cmd
}

func runValidate(ctx context.Context, runID, sourcePath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	repo, err := file.New(cfg.Output.Dir)
	if err != nil {
		return apperrors.Wrap(err, "opening artifact repository")
	}
	genSchema, err := repo.LoadGenerationSchema(ctx, runID)
	if err != nil {
		return apperrors.Wrap(err, "loading generation schema")
	}

	r, err := openReader(sourcePath)
	if err != nil {
		return apperrors.SourceError("opening validation source", err)
	}
	norm := normalizer.New(nil)
	src := source.NewNDJSON(r, norm)
	defer src.Close()

	policy := constraints.KeyFieldPolicy{PrimaryKeyField: "_id"}
	val := wiring.NewValidator(genSchema, policy)

	for {
		doc, ok, err := src.Next(ctx)
		if err != nil {
			return apperrors.SourceError("reading validation source", err)
		}
		if !ok {
			break
		}
		val.Validate(doc)
	}

	rep := val.Report()
	fmt.Println(report.ToMarkdown(rep, 25))
	if rep.DocumentsFailed > 0 {
		return &validationFailureError{failed: rep.DocumentsFailed}
	}
	return nil
}
