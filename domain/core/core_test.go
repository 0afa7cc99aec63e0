package core

import (
	"testing"
	"time"
)

func TestNewIDIsNonEmptyAndUnique(t *testing.T) {
	a := NewID()
	b := NewID()
	if a.IsEmpty() || b.IsEmpty() {
		t.Fatal("expected NewID to produce non-empty identifiers")
	}
	if a == b {
		t.Fatal("expected two calls to NewID to produce distinct identifiers")
	}
}

func TestParseRunIDRejectsBlank(t *testing.T) {
	if _, err := ParseRunID("   "); err == nil {
		t.Fatal("expected a blank run ID to be rejected")
	}
	id, err := ParseRunID("run-1")
	if err != nil || id.String() != "run-1" {
		t.Fatalf("ParseRunID(\"run-1\") = (%v, %v), want (run-1, nil)", id, err)
	}
}

func TestTimestampEpochMillisRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	ts := NewTimestamp(now)
	ms := ts.EpochMillis()
	back := FromEpochMillis(ms)
	if !back.Time().Equal(now) {
		t.Fatalf("round trip = %v, want %v", back.Time(), now)
	}
}

func TestTimestampBeforeAfter(t *testing.T) {
	earlier := NewTimestamp(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	later := NewTimestamp(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	if !earlier.Before(later) || !later.After(earlier) {
		t.Fatal("expected Before/After to reflect chronological order")
	}
}

func TestIsConfigErrorRecognizesDomainSentinels(t *testing.T) {
	if !IsConfigError(ErrInvalidThreshold) {
		t.Fatal("expected ErrInvalidThreshold to be recognized as a config error")
	}
	if IsConfigError(ErrNotFound) {
		t.Fatal("expected ErrNotFound to not be recognized as a config error")
	}
}

func TestNewNotFoundErrorWraps(t *testing.T) {
	err := NewNotFoundError("run", "abc")
	if !IsNotFoundError(err) {
		t.Fatal("expected NewNotFoundError's result to satisfy IsNotFoundError")
	}
}
