// Package errors carries the application's structured error pattern,
// generalized from gohypo's single AppError to the five error kinds spec §7
// distinguishes: configuration, source, traversal, generation, and
// validation. Configuration and source errors are fatal (returned as error);
// traversal and generation errors are warnings, accumulated by callers into
// a []string rather than returned; validation failures are reported through
// ports.ValidationReport, never through this package.
package errors

import "fmt"

// Kind classifies an AppError per spec §7.
type Kind string

const (
	KindConfig     Kind = "CONFIG"
	KindSource     Kind = "SOURCE"
	KindTraversal  Kind = "TRAVERSAL"
	KindGeneration Kind = "GENERATION"
	KindInternal   Kind = "INTERNAL"
)

// AppError is a structured application error: a kind, a human message, and
// an optional wrapped cause.
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError of the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Wrap wraps an error with additional context, preserving its kind when the
// cause is already an AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{Kind: appErr.Kind, Message: message, Cause: appErr}
	}
	return &AppError{Kind: KindInternal, Message: message, Cause: err}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Kind == kind
}

// ConfigInvalid builds a fatal configuration error (spec §7 "Configuration
// error" — the run never starts).
func ConfigInvalid(message string) *AppError {
	return New(KindConfig, message)
}

// SourceError builds a fatal source error (spec §7 "Source error" — the
// DocumentSource collaborator failed and the run aborts partway).
func SourceError(message string, cause error) *AppError {
	return &AppError{Kind: KindSource, Message: message, Cause: cause}
}

// TraversalWarning formats a per-document traversal warning (spec §7
// "Traversal warning" — malformed input at one path never aborts the run).
func TraversalWarning(path, message string) string {
	return fmt.Sprintf("traversal: %s: %s", path, message)
}

// GenerationWarning formats a generation-time warning (spec §7 "Generation
// warning" — e.g. a uniqueness-rejection budget exhausted for one field).
func GenerationWarning(path, message string) string {
	return fmt.Sprintf("generation: %s: %s", path, message)
}

// Internal wraps an unexpected error as an internal AppError.
func Internal(message string, cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Cause: cause}
}
