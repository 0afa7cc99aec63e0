package synthesizer

import (
	"testing"

	"docsynth/domain/constraints"
	"docsynth/domain/schema"
)

func emptyProfile() *constraints.ConstraintsProfile {
	return &constraints.ConstraintsProfile{
		ArrayLengths: map[string]constraints.ArrayLengthStats{},
		Numeric:      map[string]constraints.NumericRangeStats{},
		DynamicKeys:  map[string]*schema.DynamicKeyMetadata{},
	}
}

func TestSynthesizeMarksAlwaysPresentFieldsRequired(t *testing.T) {
	inferred := &schema.InferredSchema{
		Count: 10,
		Fields: map[string]*schema.InferredField{
			"name": {
				Name: "name", Path: "name", Total: 10,
				Types: []schema.TypeRecord{{Type: "string", Count: 10, Probability: 1}},
			},
			"nickname": {
				Name: "nickname", Path: "nickname", Total: 4,
				Types: []schema.TypeRecord{{Type: "string", Count: 4, Probability: 1}},
			},
		},
	}

	s := New(DefaultConfig())
	gen, err := s.Synthesize(inferred, emptyProfile())
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	requiredSet := map[string]bool{}
	for _, r := range gen.Required {
		requiredSet[r] = true
	}
	if !requiredSet["name"] {
		t.Fatal("expected name (present in all 10 documents) to be required")
	}
	if requiredSet["nickname"] {
		t.Fatal("nickname is only present in 4/10 documents, should not be required")
	}

	nickname := gen.Properties["nickname"]
	if nickname.XPresenceProbability == nil || *nickname.XPresenceProbability != 0.4 {
		t.Fatalf("expected nickname presence probability 0.4, got %v", nickname.XPresenceProbability)
	}
}

func TestSynthesizeMapsPrimaryKeyFieldToObjectIDFormat(t *testing.T) {
	inferred := &schema.InferredSchema{
		Count: 5,
		Fields: map[string]*schema.InferredField{
			"_id": {
				Name: "_id", Path: "_id", Total: 5,
				Types: []schema.TypeRecord{{Type: "string", Count: 5, Probability: 1}},
			},
		},
	}
	s := New(DefaultConfig())
	gen, err := s.Synthesize(inferred, emptyProfile())
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	idNode := gen.Properties["_id"]
	if idNode.Type != "string" || idNode.Format != "objectid" {
		t.Fatalf("expected _id to synthesize as string/objectid, got %s/%s", idNode.Type, idNode.Format)
	}
}

func TestSynthesizeLowCardinalityStringBecomesEnumCandidate(t *testing.T) {
	inferred := &schema.InferredSchema{
		Count: 20,
		Fields: map[string]*schema.InferredField{
			"status": {
				Name: "status", Path: "status", Total: 20,
				Types: []schema.TypeRecord{{
					Type: "string", Count: 20, Probability: 1,
					ValueDistribution: map[string]int{"active": 15, "inactive": 5},
				}},
			},
		},
	}
	cfg := DefaultConfig() // divisor 10 => threshold ceil(20/10)=2
	s := New(cfg)
	gen, err := s.Synthesize(inferred, emptyProfile())
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	status := gen.Properties["status"]
	if len(status.XGenEnumDistribution) != 2 {
		t.Fatalf("expected status to be recognized as an enum with 2 values, got %v", status.XGenEnumDistribution)
	}
}

func TestSynthesizeHighCardinalityStringIsNotEnumCandidate(t *testing.T) {
	dist := map[string]int{}
	for i := 0; i < 20; i++ {
		dist[itoaTest(i)] = 1
	}
	inferred := &schema.InferredSchema{
		Count: 20,
		Fields: map[string]*schema.InferredField{
			"uuid": {
				Name: "uuid", Path: "uuid", Total: 20,
				Types: []schema.TypeRecord{{
					Type: "string", Count: 20, Probability: 1,
					ValueDistribution: dist,
				}},
			},
		},
	}
	s := New(DefaultConfig())
	gen, err := s.Synthesize(inferred, emptyProfile())
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	uuidNode := gen.Properties["uuid"]
	if len(uuidNode.XGenEnumDistribution) != 0 {
		t.Fatal("expected high-cardinality field to not be treated as an enum")
	}
}

func TestSynthesizeDynamicKeyPathBecomesXDynamicKeysNode(t *testing.T) {
	inferred := &schema.InferredSchema{
		Count: 5,
		Fields: map[string]*schema.InferredField{
			"users": {
				Name: "users", Path: "users", Total: 5,
				Types: []schema.TypeRecord{{Type: "object", Count: 5, Probability: 1}},
			},
		},
	}
	profile := emptyProfile()
	profile.DynamicKeys["users"] = &schema.DynamicKeyMetadata{Enabled: true, DocumentsObserved: 5}

	s := New(DefaultConfig())
	gen, err := s.Synthesize(inferred, profile)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	users := gen.Properties["users"]
	if users.XDynamicKeys == nil || !users.XDynamicKeys.Enabled {
		t.Fatal("expected users to synthesize as an x-dynamic-keys node")
	}
}

func itoaTest(n int) string {
	digits := "0123456789"
	if n == 0 {
		return "0"
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return string(buf)
}
