package keygen

import (
	"math/rand"
	"regexp"
	"testing"
	"time"

	"docsynth/domain/pattern"
)

func TestGenerateUUIDProducesRFC4122Shape(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	id, err := Generate(pattern.UUID, r, time.Now(), "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	if !want.MatchString(id) {
		t.Fatalf("generated UUID %q does not match the expected v4 shape", id)
	}
}

func TestGenerateObjectIDIs24HexChars(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	id, err := Generate(pattern.MongoDBObjectID, r, time.Now(), "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(id) != 24 {
		t.Fatalf("objectid length = %d, want 24", len(id))
	}
	if !regexp.MustCompile(`^[0-9a-f]{24}$`).MatchString(id) {
		t.Fatalf("objectid %q is not lowercase hex", id)
	}
}

func TestGenerateNumericIDIsInRange(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		id, err := Generate(pattern.NumericID, r, time.Now(), "")
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !regexp.MustCompile(`^[0-9]{6,9}$`).MatchString(id) {
			t.Fatalf("numeric id %q out of the expected digit-length range", id)
		}
	}
}

func TestGeneratePrefixedIDUsesKnownPrefix(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	id, err := Generate(pattern.PrefixedID, r, time.Now(), "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !regexp.MustCompile(`^(user|doc|item|order)_[a-z0-9]{16}$`).MatchString(id) {
		t.Fatalf("prefixed id %q does not match the expected shape", id)
	}
}

func TestGenerateIsDeterministicGivenTheSameRandSource(t *testing.T) {
	now := time.Now()
	r1 := rand.New(rand.NewSource(42))
	r2 := rand.New(rand.NewSource(42))
	id1, _ := Generate(pattern.ULID, r1, now, "")
	id2, _ := Generate(pattern.ULID, r2, now, "")
	if id1 != id2 {
		t.Fatalf("expected identical seeds to produce identical ULIDs, got %q vs %q", id1, id2)
	}
}

func TestGenerateUnsupportedPatternErrors(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	if _, err := Generate(pattern.Name("not-a-real-pattern"), r, time.Now(), ""); err == nil {
		t.Fatal("expected an unsupported pattern name to error")
	}
}
