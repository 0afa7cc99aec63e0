// Package ports declares the interfaces the core pipeline depends on but
// does not implement: the document source and sink collaborators spec §1/§6
// name as out of scope, plus the seams between pipeline stages so each can
// be swapped or mocked independently.
package ports

import (
	"context"

	"docsynth/domain/constraints"
	"docsynth/domain/document"
	"docsynth/domain/schema"
)

// DocumentSource yields documents from an external collaborator (a database
// client, a file, a queue). The core never implements one beyond the
// reference NDJSON reader in adapters/source, which exists to make the
// pipeline runnable and testable end to end.
type DocumentSource interface {
	// Next returns the next document, or (zero, false, nil) when the
	// stream is exhausted, or a non-nil error on unrecoverable I/O
	// failure (spec §7 "Source error").
	Next(ctx context.Context) (document.Document, bool, error)
	Close() error
}

// DocumentSink receives a stream of documents for persistence or transport.
type DocumentSink interface {
	Write(ctx context.Context, doc document.Document) error
	Close() error
}

// ProfilerPort drives the accumulators of spec §4.6 over a document stream
// and produces the bundled ConstraintsProfile.
type ProfilerPort interface {
	Observe(doc document.Document) error
	GetProfile() (*constraints.ConstraintsProfile, []string, error) // (profile, warnings, error)
}

// InferencerPort is the streaming inferencer of spec §4.5.
type InferencerPort interface {
	Observe(doc document.Document) error
	GetStats() (*schema.InferredSchema, []string, error)
}

// SynthesizerPort merges an InferredSchema and a ConstraintsProfile into a
// GenerationSchema (spec §4.7).
type SynthesizerPort interface {
	Synthesize(inferred *schema.InferredSchema, profile *constraints.ConstraintsProfile) (*schema.GenerationSchema, error)
}

// GeneratorPort walks a GenerationSchema to produce a stream of synthetic
// documents (spec §4.8). Generators are single-use per stream and own a
// random source plus a running counter for uniqueness (spec §3 Lifecycles).
type GeneratorPort interface {
	Generate(ctx context.Context, count int) (<-chan document.Document, <-chan error)
}

// ValidatorPort checks generated documents against the generation schema and
// tracks cross-document key uniqueness (spec §4.9).
type ValidatorPort interface {
	Validate(doc document.Document) (bool, []ValidationError)
	Report() ValidationReport
}

// ValidationError is one JSON-pointer-style schema violation.
type ValidationError struct {
	Pointer string `json:"pointer"`
	Message string `json:"message"`
}

// ValidationReport summarizes a full validation pass (spec §4.9, §8 E5/E6).
type ValidationReport struct {
	DocumentsChecked int              `json:"documents_checked"`
	DocumentsFailed  int              `json:"documents_failed"`
	Errors           []ValidationError `json:"errors"`
	DuplicateKeys    map[string]int   `json:"duplicate_keys"` // key field -> duplicate count
}

// ArtifactRepository persists/loads the three artifacts spec §6 names.
type ArtifactRepository interface {
	SaveInferredSchema(ctx context.Context, runID string, s *schema.InferredSchema) error
	SaveGenerationSchema(ctx context.Context, runID string, s *schema.GenerationSchema) error
	SaveConstraints(ctx context.Context, runID string, c *constraints.ConstraintsProfile) error

	LoadInferredSchema(ctx context.Context, runID string) (*schema.InferredSchema, error)
	LoadGenerationSchema(ctx context.Context, runID string) (*schema.GenerationSchema, error)
	LoadConstraints(ctx context.Context, runID string) (*constraints.ConstraintsProfile, error)
}
