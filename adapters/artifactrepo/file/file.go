// Package file persists the three spec §6 artifacts as the named JSON
// files it documents: inferred.schema.json, generation.schema.json, and
// constraints.json, one set per run directory.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"docsynth/domain/constraints"
	"docsynth/domain/schema"
	"docsynth/ports"
)

const (
	inferredFilename   = "inferred.schema.json"
	generationFilename = "generation.schema.json"
	constraintsFilename = "constraints.json"
)

// Repository implements ports.ArtifactRepository over a local directory,
// one subdirectory per run ID (spec §6 "persisted artifacts").
type Repository struct {
	baseDir string
}

// New creates a Repository rooted at baseDir, creating it if needed.
func New(baseDir string) (*Repository, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("artifactrepo/file: create base dir: %w", err)
	}
	return &Repository{baseDir: baseDir}, nil
}

var _ ports.ArtifactRepository = (*Repository)(nil)

func (r *Repository) runDir(runID string) string {
	return filepath.Join(r.baseDir, runID)
}

func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func readJSON(path string, v interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func (r *Repository) SaveInferredSchema(_ context.Context, runID string, s *schema.InferredSchema) error {
	return writeJSON(filepath.Join(r.runDir(runID), inferredFilename), s)
}

func (r *Repository) SaveGenerationSchema(_ context.Context, runID string, s *schema.GenerationSchema) error {
	return writeJSON(filepath.Join(r.runDir(runID), generationFilename), s)
}

func (r *Repository) SaveConstraints(_ context.Context, runID string, c *constraints.ConstraintsProfile) error {
	return writeJSON(filepath.Join(r.runDir(runID), constraintsFilename), c)
}

func (r *Repository) LoadInferredSchema(_ context.Context, runID string) (*schema.InferredSchema, error) {
	var s schema.InferredSchema
	if err := readJSON(filepath.Join(r.runDir(runID), inferredFilename), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) LoadGenerationSchema(_ context.Context, runID string) (*schema.GenerationSchema, error) {
	var s schema.GenerationSchema
	if err := readJSON(filepath.Join(r.runDir(runID), generationFilename), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) LoadConstraints(_ context.Context, runID string) (*constraints.ConstraintsProfile, error) {
	var c constraints.ConstraintsProfile
	if err := readJSON(filepath.Join(r.runDir(runID), constraintsFilename), &c); err != nil {
		return nil, err
	}
	return &c, nil
}
