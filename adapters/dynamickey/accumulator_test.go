package dynamickey

import (
	"testing"

	"docsynth/domain/document"
	"docsynth/domain/pattern"
)

func testConfig(t *testing.T, threshold int) Config {
	t.Helper()
	catalog, err := pattern.NewCatalog(pattern.DefaultCatalog())
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return Config{
		Threshold:           threshold,
		MinPatternMatch:     0.8,
		ConfidenceThreshold: 0.7,
		Catalog:             catalog,
	}
}

func docWithUser(id string) document.Document {
	return document.Object(map[string]document.Value{
		"users": document.Object(map[string]document.Value{
			id: document.Object(map[string]document.Value{
				"name": document.String("alice"),
			}),
		}),
	})
}

func TestConfigValidateRejectsBadThreshold(t *testing.T) {
	cfg := testConfig(t, 1)
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected threshold < 2 to be rejected")
	}
}

func TestConfigValidateRejectsOverlappingForceLists(t *testing.T) {
	cfg := testConfig(t, 20)
	cfg.ForceStaticPaths = []document.Path{"users"}
	cfg.ForceDynamicPaths = []document.Path{"users"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected overlapping force-static/force-dynamic paths to be rejected")
	}
}

func TestAccumulatorPromotesOnKeyCountThreshold(t *testing.T) {
	cfg := testConfig(t, 5)
	acc, err := NewAccumulator(cfg, nil)
	if err != nil {
		t.Fatalf("NewAccumulator: %v", err)
	}

	for i := 0; i < 10; i++ {
		acc.Observe(docWithUser(uuidLike(i)))
	}

	if !acc.IsDynamic("users") {
		t.Fatal("expected users to be promoted to Dynamic after exceeding the threshold")
	}

	results := acc.GetStats()
	res, ok := results["users"]
	if !ok {
		t.Fatal("expected a Result for the promoted users path")
	}
	if !res.Metadata.Enabled {
		t.Fatal("expected Enabled=true on the dynamic-key metadata")
	}
	if res.Metadata.DocumentsObserved != 10 {
		t.Fatalf("DocumentsObserved = %d, want 10", res.Metadata.DocumentsObserved)
	}
}

func TestAccumulatorForceStaticNeverPromotes(t *testing.T) {
	cfg := testConfig(t, 2)
	cfg.ForceStaticPaths = []document.Path{"users"}
	acc, err := NewAccumulator(cfg, nil)
	if err != nil {
		t.Fatalf("NewAccumulator: %v", err)
	}

	for i := 0; i < 20; i++ {
		acc.Observe(docWithUser(uuidLike(i)))
	}

	if acc.IsDynamic("users") {
		t.Fatal("force-static path should never be promoted")
	}
}

func TestAccumulatorForceDynamicPromotesImmediately(t *testing.T) {
	cfg := testConfig(t, 100)
	cfg.ForceDynamicPaths = []document.Path{"users"}
	acc, err := NewAccumulator(cfg, nil)
	if err != nil {
		t.Fatalf("NewAccumulator: %v", err)
	}

	acc.Observe(docWithUser("only-one-key"))

	if !acc.IsDynamic("users") {
		t.Fatal("force-dynamic path should be promoted on the first observation")
	}
}

func TestAccumulatorRootNeverPromotes(t *testing.T) {
	cfg := testConfig(t, 2)
	cfg.ForceDynamicPaths = []document.Path{document.Root}
	acc, err := NewAccumulator(cfg, nil)
	if err != nil {
		t.Fatalf("NewAccumulator: %v", err)
	}
	acc.Observe(docWithUser("x"))
	if acc.IsDynamic(document.Root) {
		t.Fatal("root must never be promoted to Dynamic (spec invariant 4)")
	}
}

// uuidLike produces distinct-enough object keys without relying on a real
// UUID generator; the accumulator's promotion rule only needs "high key
// cardinality, low repeat", not a valid UUID shape, to trip the threshold.
func uuidLike(i int) string {
	const hex = "0123456789abcdef"
	b := make([]byte, 8)
	for j := range b {
		b[j] = hex[(i+j*7)%16]
	}
	return string(b)
}
