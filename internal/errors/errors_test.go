package errors

import (
	"errors"
	"testing"
)

func TestErrorIncludesCauseWhenPresent(t *testing.T) {
	cause := errors.New("disk full")
	err := SourceError("opening document source", cause)
	want := "opening document source: disk full"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorOmitsCauseWhenAbsent(t *testing.T) {
	err := ConfigInvalid("missing source path")
	if err.Error() != "missing source path" {
		t.Fatalf("Error() = %q, want %q", err.Error(), "missing source path")
	}
}

func TestWrapPreservesKind(t *testing.T) {
	original := SourceError("reading stream", errors.New("eof"))
	wrapped := Wrap(original, "pipeline stage failed")
	if !IsKind(wrapped, KindSource) {
		t.Fatal("expected Wrap to preserve the original AppError's kind")
	}
}

func TestWrapOfPlainErrorBecomesInternal(t *testing.T) {
	wrapped := Wrap(errors.New("boom"), "unexpected")
	if !IsKind(wrapped, KindInternal) {
		t.Fatal("expected wrapping a plain error to produce an internal-kind AppError")
	}
}

func TestWrapOfNilReturnsNil(t *testing.T) {
	if Wrap(nil, "message") != nil {
		t.Fatal("expected Wrap(nil, ...) to return nil")
	}
}

func TestIsKindFalseForNonAppError(t *testing.T) {
	if IsKind(errors.New("plain"), KindConfig) {
		t.Fatal("expected a plain error to not match any Kind")
	}
}

func TestTraversalAndGenerationWarningFormatting(t *testing.T) {
	if got := TraversalWarning("users.*", "malformed oid"); got != "traversal: users.*: malformed oid" {
		t.Fatalf("TraversalWarning = %q", got)
	}
	if got := GenerationWarning("_id", "exhausted uniqueness budget"); got != "generation: _id: exhausted uniqueness budget" {
		t.Fatalf("GenerationWarning = %q", got)
	}
}
