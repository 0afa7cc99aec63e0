package report

import (
	"strings"
	"testing"

	"docsynth/ports"
)

func sampleReport() ports.ValidationReport {
	return ports.ValidationReport{
		DocumentsChecked: 10,
		DocumentsFailed:  2,
		DuplicateKeys:    map[string]int{"_id": 3},
		Errors: []ports.ValidationError{
			{Pointer: "/name", Message: "required field missing"},
			{Pointer: "/age", Message: "expected integer"},
		},
	}
}

func TestToMarkdownIncludesSummaryAndPassRate(t *testing.T) {
	md := ToMarkdown(sampleReport(), 10)
	if !strings.Contains(md, "Documents checked: **10**") {
		t.Fatalf("expected documents-checked line, got:\n%s", md)
	}
	if !strings.Contains(md, "Pass rate: **80.00%**") {
		t.Fatalf("expected 80%% pass rate, got:\n%s", md)
	}
}

func TestToMarkdownRendersDuplicateKeyTable(t *testing.T) {
	md := ToMarkdown(sampleReport(), 10)
	if !strings.Contains(md, "## Duplicate key fields") {
		t.Fatal("expected a duplicate key fields section")
	}
	if !strings.Contains(md, "| `_id` | 3 |") {
		t.Fatalf("expected the _id duplicate row, got:\n%s", md)
	}
}

func TestToMarkdownTruncatesErrorsBeyondTheLimit(t *testing.T) {
	md := ToMarkdown(sampleReport(), 1)
	if !strings.Contains(md, "/name") {
		t.Fatal("expected the first error to be listed")
	}
	if strings.Contains(md, "/age") {
		t.Fatal("expected the second error to be truncated")
	}
	if !strings.Contains(md, "_...and 1 more._") {
		t.Fatalf("expected a truncation notice, got:\n%s", md)
	}
}

func TestToMarkdownOmitsEmptySections(t *testing.T) {
	md := ToMarkdown(ports.ValidationReport{DocumentsChecked: 5}, 10)
	if strings.Contains(md, "## Duplicate key fields") {
		t.Fatal("expected no duplicate key section when there are no duplicates")
	}
	if strings.Contains(md, "## Schema violations") {
		t.Fatal("expected no schema violations section when there are no errors")
	}
}

func TestToHTMLRendersDuplicateKeyAsTableMarkup(t *testing.T) {
	html := string(ToHTML(sampleReport(), 10))
	if !strings.Contains(html, "<table>") {
		t.Fatalf("expected gomarkdown to render a <table>, got:\n%s", html)
	}
	if !strings.Contains(html, "_id") {
		t.Fatalf("expected the duplicate key field name in the HTML output, got:\n%s", html)
	}
}
