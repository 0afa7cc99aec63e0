// Package postgres persists the three spec §6 artifacts (inferred schema,
// generation schema, constraints profile) as JSONB rows, keyed by run ID —
// an alternative to the file-based repository for deployments that want
// the artifacts queryable rather than file-bound (SPEC_FULL.md supplement).
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"docsynth/domain/constraints"
	"docsynth/domain/schema"
	"docsynth/ports"
)

// Schema is the DDL this repository expects; callers run it (or an
// equivalent migration) once per database before using the repository.
const Schema = `
CREATE TABLE IF NOT EXISTS docsynth_artifacts (
	run_id     TEXT NOT NULL,
	kind       TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (run_id, kind)
);
`

const (
	kindInferred   = "inferred_schema"
	kindGeneration = "generation_schema"
	kindConstraints = "constraints"
)

// Repository implements ports.ArtifactRepository over a Postgres database.
type Repository struct {
	db *sqlx.DB
}

// Open connects to dsn and wraps the resulting *sqlx.DB.
func Open(dsn string) (*Repository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("artifactrepo/postgres: connect: %w", err)
	}
	return &Repository{db: db}, nil
}

// New wraps an already-open *sqlx.DB.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

var _ ports.ArtifactRepository = (*Repository)(nil)

func (r *Repository) upsert(ctx context.Context, runID, kind string, payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("artifactrepo/postgres: marshal %s: %w", kind, err)
	}
	const q = `
		INSERT INTO docsynth_artifacts (run_id, kind, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (run_id, kind) DO UPDATE SET payload = EXCLUDED.payload, created_at = now()
	`
	if _, err := r.db.ExecContext(ctx, q, runID, kind, b); err != nil {
		return fmt.Errorf("artifactrepo/postgres: upsert %s: %w", kind, err)
	}
	return nil
}

func (r *Repository) load(ctx context.Context, runID, kind string, out interface{}) error {
	const q = `SELECT payload FROM docsynth_artifacts WHERE run_id = $1 AND kind = $2`
	var raw []byte
	if err := r.db.QueryRowContext(ctx, q, runID, kind).Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("artifactrepo/postgres: %s not found for run %s", kind, runID)
		}
		return fmt.Errorf("artifactrepo/postgres: load %s: %w", kind, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("artifactrepo/postgres: unmarshal %s: %w", kind, err)
	}
	return nil
}

func (r *Repository) SaveInferredSchema(ctx context.Context, runID string, s *schema.InferredSchema) error {
	return r.upsert(ctx, runID, kindInferred, s)
}

func (r *Repository) SaveGenerationSchema(ctx context.Context, runID string, s *schema.GenerationSchema) error {
	return r.upsert(ctx, runID, kindGeneration, s)
}

func (r *Repository) SaveConstraints(ctx context.Context, runID string, c *constraints.ConstraintsProfile) error {
	return r.upsert(ctx, runID, kindConstraints, c)
}

func (r *Repository) LoadInferredSchema(ctx context.Context, runID string) (*schema.InferredSchema, error) {
	var s schema.InferredSchema
	if err := r.load(ctx, runID, kindInferred, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) LoadGenerationSchema(ctx context.Context, runID string) (*schema.GenerationSchema, error) {
	var s schema.GenerationSchema
	if err := r.load(ctx, runID, kindGeneration, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) LoadConstraints(ctx context.Context, runID string) (*constraints.ConstraintsProfile, error) {
	var c constraints.ConstraintsProfile
	if err := r.load(ctx, runID, kindConstraints, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
