package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized sentinel definitions.
var (
	// Not found errors.
	ErrNotFound         = errors.New("resource not found")
	ErrArtifactNotFound = fmt.Errorf("%w: artifact", ErrNotFound)

	// Configuration errors (pre-run, fatal; spec §7).
	ErrInvalidThreshold = errors.New("dynamic-key threshold must be >= 2")
	ErrInvalidRatio     = errors.New("ratio must be within [0,1]")
	ErrDuplicatePattern = errors.New("duplicate pattern name in catalog")
	ErrInvalidRegex     = errors.New("invalid pattern regular expression")
	ErrPathOverlap      = errors.New("path present in both force-static and force-dynamic lists")

	// Frequency-primitive usage errors (spec §4.1).
	ErrEmptyDistribution = errors.New("distribution is empty")
	ErrPercentileRange   = errors.New("percentile must be within [0,1]")

	// Schema/generation errors.
	ErrSchemaDepthExceeded = errors.New("schema recursion depth exceeded")
	ErrUnknownFormat       = errors.New("unrecognized format directive")

	// Source/sink errors.
	ErrSourceExhausted = errors.New("document source exhausted")

	// Determinism errors.
	ErrNonDeterministic = errors.New("non-deterministic result")
	ErrSeedMismatch     = errors.New("seed mismatch")
)

// NewConfigError wraps a configuration validation failure with context.
func NewConfigError(field string, cause error) error {
	return fmt.Errorf("invalid configuration for %s: %w", field, cause)
}

// NewNotFoundError constructs a not-found error for a resource/id pair.
func NewNotFoundError(resource, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// IsConfigError reports whether err stems from configuration validation.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidThreshold) ||
		errors.Is(err, ErrInvalidRatio) ||
		errors.Is(err, ErrDuplicatePattern) ||
		errors.Is(err, ErrInvalidRegex) ||
		errors.Is(err, ErrPathOverlap)
}

// IsNotFoundError reports whether err is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDeterminismError reports whether err stems from a reproducibility failure.
func IsDeterminismError(err error) bool {
	return errors.Is(err, ErrNonDeterministic) || errors.Is(err, ErrSeedMismatch)
}
