package normalizer

import (
	"testing"

	"docsynth/domain/document"
)

func TestNormalizeRecordsTypeHintsAtRoot(t *testing.T) {
	n := New(nil)
	n.Normalize(map[string]interface{}{"age": float64(30)})
	hints := n.TypeHints()
	root, ok := hints[document.Root]
	if !ok {
		t.Fatal("expected a type hint recorded at root")
	}
	if root[document.KindObject] != 1 {
		t.Fatalf("expected one object observation at root, got %v", root)
	}
}

func TestNormalizeAtRecordsUnderTheGivenPath(t *testing.T) {
	n := New(nil)
	path := document.Root.Child("age")
	n.NormalizeAt(path, float64(30))
	hints := n.TypeHints()
	if hints[path][document.KindInt] != 1 {
		t.Fatalf("expected an integer hint at %q, got %v", path, hints[path])
	}
}

func TestNormalizeForwardsWarningsWithPath(t *testing.T) {
	var gotPath document.Path
	var gotMsg string
	n := New(func(path document.Path, message string) {
		gotPath = path
		gotMsg = message
	})
	path := document.Root.Child("amount")
	n.NormalizeAt(path, map[string]interface{}{"kind": "decimal", "text": 123})
	if gotPath != path {
		t.Fatalf("warning path = %q, want %q", gotPath, path)
	}
	if gotMsg == "" {
		t.Fatal("expected a non-empty warning message for a malformed decimal tag")
	}
}

func TestTypeHintsSnapshotIsIndependentOfFurtherObservations(t *testing.T) {
	n := New(nil)
	n.Normalize(float64(1))
	snapshot := n.TypeHints()
	n.Normalize("now a string")
	if snapshot[document.Root][document.KindString] != 0 {
		t.Fatal("expected the earlier snapshot to not reflect observations made after it was taken")
	}
}
