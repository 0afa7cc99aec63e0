package semanticstats

import (
	"testing"

	"docsynth/domain/document"
	"docsynth/domain/semantic"
)

func TestGetProfileReportsBestLabelAndConfidence(t *testing.T) {
	acc := New(semantic.DefaultCatalog())
	path := document.Root.Child("contact_email")
	values := []string{"a@example.com", "b@example.com", "not-an-email"}
	for _, v := range values {
		acc.Observe(path, v)
	}

	profile := acc.GetProfile()
	stats, ok := profile[path.String()]
	if !ok {
		t.Fatal("expected stats for the observed path")
	}
	if stats.Label != string(semantic.Email) {
		t.Fatalf("Label = %q, want %q", stats.Label, semantic.Email)
	}
	if stats.Total != 3 {
		t.Fatalf("Total = %d, want 3", stats.Total)
	}
	if stats.Hits != 2 {
		t.Fatalf("Hits = %d, want 2", stats.Hits)
	}
}

func TestGetProfileOmitsPathsWithNoHits(t *testing.T) {
	acc := New(semantic.DefaultCatalog())
	path := document.Root.Child("description")
	acc.Observe(path, "just some free text, not any recognized semantic shape")

	profile := acc.GetProfile()
	if _, ok := profile[path.String()]; ok {
		t.Fatal("expected a path with zero detector hits to be omitted from the profile")
	}
}
