package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier.
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation.
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation.
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty.
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types.
type (
	// RunID identifies a single pipeline run (profile → synthesize → generate).
	RunID ID
	// ArtifactID identifies a persisted artifact (inferred schema, generation schema, constraints).
	ArtifactID ID
)

func (id RunID) String() string      { return ID(id).String() }
func (id ArtifactID) String() string { return ID(id).String() }

// ParseRunID parses a string into a RunID.
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}

// Artifact represents any persisted output of the system.
type Artifact struct {
	ID        ID           `json:"id"`
	Kind      ArtifactKind `json:"kind"`
	Payload   interface{}  `json:"payload"`
	CreatedAt Timestamp    `json:"created_at"`
}

// ArtifactKind defines the three artifact families spec §6 names.
type ArtifactKind string

const (
	ArtifactInferredSchema   ArtifactKind = "inferred_schema"
	ArtifactGenerationSchema ArtifactKind = "generation_schema"
	ArtifactConstraints      ArtifactKind = "constraints"
)
