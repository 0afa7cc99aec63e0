package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"regexp"
	"testing"

	"docsynth/adapters/dynamickey"
	"docsynth/adapters/emitter"
	"docsynth/adapters/generator"
	"docsynth/adapters/inferencer"
	"docsynth/adapters/profiler"
	"docsynth/adapters/rng"
	"docsynth/adapters/synthesizer"
	"docsynth/domain/constraints"
	"docsynth/domain/document"
	"docsynth/domain/pattern"
	"docsynth/domain/schema"
)

// These scenarios mirror the profile -> synthesize -> generate round trip
// end to end, through the real adapters rather than fakes, the way a QA
// run over a known input distribution would be checked.

func scenarioDynamicConfig(t *testing.T) dynamickey.Config {
	t.Helper()
	catalog, err := pattern.NewCatalog(pattern.DefaultCatalog())
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return dynamickey.Config{
		Threshold:           20,
		MinPatternMatch:     0.8,
		ConfidenceThreshold: 0.7,
		Catalog:             catalog,
	}
}

func newProfilingPair(t *testing.T) (*profiler.Profiler, *inferencer.Inferencer) {
	t.Helper()
	prof, err := profiler.New(profiler.Config{
		SizeProxy:      profiler.SizeProxyLeafFieldCount,
		KeyFieldPolicy: constraints.KeyFieldPolicy{PrimaryKeyField: "_id"},
		Dynamic:        scenarioDynamicConfig(t),
	})
	if err != nil {
		t.Fatalf("profiler.New: %v", err)
	}
	inf := inferencer.New(inferencer.DefaultConfig(), prof.Dynamic(), func(string) {})
	return prof, inf
}

func runScenario(t *testing.T, docsIn []document.Document) (*schema.InferredSchema, *constraints.ConstraintsProfile) {
	t.Helper()
	prof, inf := newProfilingPair(t)
	src := &fakeSource{docs: docsIn}
	result, err := RunProfile(context.Background(), src, inf, prof)
	if err != nil {
		t.Fatalf("RunProfile: %v", err)
	}
	return result.Inferred, result.Profile
}

func synthesizeScenario(t *testing.T, inferred *schema.InferredSchema, profile *constraints.ConstraintsProfile) *schema.GenerationSchema {
	t.Helper()
	synth := synthesizer.New(synthesizer.DefaultConfig())
	genSchema, err := synth.Synthesize(inferred, profile)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	return genSchema
}

func generateAll(t *testing.T, genSchema *schema.GenerationSchema, seed int64, count int) []document.Document {
	t.Helper()
	gen := generator.New(genSchema, rng.New(), generator.Config{Seed: seed})
	out, errs := gen.Generate(context.Background(), count)
	var docsOut []document.Document
	for d := range out {
		docsOut = append(docsOut, d)
	}
	if err := <-errs; err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return docsOut
}

func withinTolerance(got, want int, relTolerance float64) bool {
	tol := float64(want) * relTolerance
	diff := float64(got - want)
	if diff < 0 {
		diff = -diff
	}
	return diff <= tol
}

// E1: enum preservation. 50/30/20 split over "status" should survive
// synthesis and come back out in roughly the same proportions.
func TestScenarioEnumPreservation(t *testing.T) {
	var docsIn []document.Document
	for i := 0; i < 50; i++ {
		docsIn = append(docsIn, document.Object(map[string]document.Value{"status": document.String("A")}))
	}
	for i := 0; i < 30; i++ {
		docsIn = append(docsIn, document.Object(map[string]document.Value{"status": document.String("B")}))
	}
	for i := 0; i < 20; i++ {
		docsIn = append(docsIn, document.Object(map[string]document.Value{"status": document.String("C")}))
	}

	inferred, profile := runScenario(t, docsIn)
	genSchema := synthesizeScenario(t, inferred, profile)

	if len(genSchema.Properties["status"].XGenEnumDistribution) == 0 {
		t.Fatal("expected status to synthesize as an enum candidate")
	}

	generated := generateAll(t, genSchema, 999, 2000)
	counts := map[string]int{}
	for _, d := range generated {
		counts[d.Object["status"].Str]++
	}

	want := map[string]int{"A": 1000, "B": 600, "C": 400}
	for k, w := range want {
		if !withinTolerance(counts[k], w, 0.15) {
			t.Fatalf("status %q count = %d, want within 15%% of %d (full distribution %v)", k, counts[k], w, counts)
		}
	}
}

// E2: numeric enum. 50/50 split over integer "rank" values 1 and 2.
func TestScenarioNumericEnum(t *testing.T) {
	var docsIn []document.Document
	for i := 0; i < 50; i++ {
		docsIn = append(docsIn, document.Object(map[string]document.Value{"rank": document.Int(1)}))
	}
	for i := 0; i < 50; i++ {
		docsIn = append(docsIn, document.Object(map[string]document.Value{"rank": document.Int(2)}))
	}

	inferred, profile := runScenario(t, docsIn)
	genSchema := synthesizeScenario(t, inferred, profile)

	if genSchema.Properties["rank"].Type != "integer" {
		t.Fatalf("rank.type = %q, want integer", genSchema.Properties["rank"].Type)
	}

	generated := generateAll(t, genSchema, 1, 100)
	ones := 0
	for _, d := range generated {
		if d.Object["rank"].Int == 1 {
			ones++
		}
	}
	if !withinTolerance(ones, 50, 0.3) {
		t.Fatalf("count(rank==1) = %d, want close to 50", ones)
	}
}

var objectIDHexPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// E3: dynamic key detection. "byId" holds 24-hex keys across every
// document; this should promote to Dynamic with the MongoDB ObjectId
// pattern and round-trip through generation as a dynamic-keyed object.
func TestScenarioDynamicKeyDetection(t *testing.T) {
	var docsIn []document.Document
	nextKey := 0
	for doc := 0; doc < 100; doc++ {
		byID := make(map[string]document.Value, 12)
		for i := 0; i < 12; i++ {
			key := keyHex(nextKey)
			nextKey++
			byID[key] = document.Int(int64(doc))
		}
		docsIn = append(docsIn, document.Object(map[string]document.Value{
			"byId": document.Object(byID),
		}))
	}

	inferred, profile := runScenario(t, docsIn)

	meta, ok := profile.DynamicKeys["byId"]
	if !ok || !meta.Enabled {
		t.Fatal("expected byId to be classified Dynamic")
	}
	if meta.Pattern == nil || *meta.Pattern != pattern.MongoDBObjectID {
		t.Fatalf("expected the MongoDB ObjectId pattern, got %v", meta.Pattern)
	}
	if meta.Confidence < 0.8 {
		t.Fatalf("confidence = %v, want >= 0.8", meta.Confidence)
	}
	if byIDField, ok := inferred.Fields["byId"]; ok && len(byIDField.Nested) != 0 {
		t.Fatalf("expected byId's Nested map to stay empty once Dynamic, got %d entries", len(byIDField.Nested))
	}

	genSchema := synthesizeScenario(t, inferred, profile)
	byIDNode := genSchema.Properties["byId"]
	if byIDNode.XDynamicKeys == nil || !byIDNode.XDynamicKeys.Enabled {
		t.Fatal("expected byId to synthesize as a dynamic-keys node")
	}
	if len(byIDNode.Properties) != 0 {
		t.Fatalf("expected no fixed properties under a dynamic-keys node, got %v", byIDNode.Properties)
	}

	generated := generateAll(t, genSchema, 7, 50)
	for _, d := range generated {
		byID := d.Object["byId"]
		for key := range byID.Object {
			if !objectIDHexPattern.MatchString(key) {
				t.Fatalf("generated byId key %q does not match a 24-hex object id", key)
			}
		}
	}
}

func keyHex(n int) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 24)
	for i := 23; i >= 0; i-- {
		buf[i] = hexDigits[n&0xf]
		n >>= 4
	}
	return string(buf)
}

// E4: array length distribution. "tags" lengths {2:1, 3:2, 4:1} over the
// input should come back out in roughly the same proportions.
func TestScenarioArrayLengthDistribution(t *testing.T) {
	lengths := []int{2, 3, 3, 4}
	var docsIn []document.Document
	for _, n := range lengths {
		items := make([]document.Value, n)
		for i := range items {
			items[i] = document.String("x")
		}
		docsIn = append(docsIn, document.Object(map[string]document.Value{
			"tags": document.Array(items...),
		}))
	}

	inferred, profile := runScenario(t, docsIn)
	genSchema := synthesizeScenario(t, inferred, profile)

	generated := generateAll(t, genSchema, 42, 3000)
	histogram := map[int]int{}
	for _, d := range generated {
		histogram[len(d.Object["tags"].Array)]++
	}

	want := map[int]int{2: 750, 3: 1500, 4: 750}
	for length, w := range want {
		if !withinTolerance(histogram[length], w, 0.2) {
			t.Fatalf("tags length %d count = %d, want within 20%% of %d (full histogram %v)", length, histogram[length], w, histogram)
		}
	}
}

// E5: uniqueness of _id. 10,000 documents generated against an
// objectid-formatted primary key must contain zero duplicates.
func TestScenarioPrimaryKeyUniqueness(t *testing.T) {
	genSchema := schema.NewGenerationSchema(&schema.Node{
		Type: "object",
		Properties: map[string]*schema.Node{
			"_id": {Type: "string", Format: "objectid"},
		},
		Required:             []string{"_id"},
		AdditionalProperties: &schema.AdditionalProps{Allowed: true},
	})

	generated := generateAll(t, genSchema, 5, 10000)
	seen := make(map[string]struct{}, len(generated))
	for _, d := range generated {
		id := d.Object["_id"].Str
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate _id %q among %d generated documents", id, len(generated))
		}
		seen[id] = struct{}{}
	}
}

// E6: NDJSON output. N generated documents piped through the NDJSON
// emitter must yield exactly N newline-terminated lines, each parseable
// as JSON and round-tripping through document.Value unchanged.
func TestScenarioNDJSONRoundTrip(t *testing.T) {
	genSchema := schema.NewGenerationSchema(&schema.Node{
		Type: "object",
		Properties: map[string]*schema.Node{
			"name": {Type: "string"},
			"n":    {Type: "integer", Minimum: float64Ptr(0), Maximum: float64Ptr(100)},
		},
		Required:             []string{"name", "n"},
		AdditionalProperties: &schema.AdditionalProps{Allowed: false},
	})
	generated := generateAll(t, genSchema, 3, 25)

	var buf bytes.Buffer
	sink := emitter.NewNDJSON(&buf)
	for _, d := range generated {
		if err := sink.Write(context.Background(), d); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(lines) != len(generated) {
		t.Fatalf("got %d lines, want %d", len(lines), len(generated))
	}

	for i, line := range lines {
		var back document.Value
		if err := back.UnmarshalJSON([]byte(line)); err != nil {
			t.Fatalf("line %d did not parse as JSON: %v", i, err)
		}
		if back.Kind != document.KindObject {
			t.Fatalf("line %d: expected an object, got kind %v", i, back.Kind)
		}
		if back.Object["name"].Str != generated[i].Object["name"].Str {
			t.Fatalf("line %d: name mismatch after round trip", i)
		}
		if back.Object["n"].Int != generated[i].Object["n"].Int {
			t.Fatalf("line %d: n mismatch after round trip", i)
		}
	}
}

func float64Ptr(f float64) *float64 { return &f }
