// Package report renders a ports.ValidationReport as Markdown (and its HTML
// rendering), the way a human reviewer would read a QA run summary. This is
// a SPEC_FULL.md supplement: spec.md's validator (§4.9) only names the
// structured ValidationReport, not a human-facing rendering of it.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"

	"docsynth/ports"
)

// ToMarkdown renders report as a Markdown document: a summary line, then a
// duplicate-key-field table, then the first N schema violations (the rest
// are counted, not listed, to keep the report readable for large runs).
func ToMarkdown(report ports.ValidationReport, maxErrorsListed int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Validation report\n\n")
	fmt.Fprintf(&b, "- Documents checked: **%d**\n", report.DocumentsChecked)
	fmt.Fprintf(&b, "- Documents failed: **%d**\n", report.DocumentsFailed)
	passRate := 0.0
	if report.DocumentsChecked > 0 {
		passRate = 100 * float64(report.DocumentsChecked-report.DocumentsFailed) / float64(report.DocumentsChecked)
	}
	fmt.Fprintf(&b, "- Pass rate: **%.2f%%**\n\n", passRate)

	if len(report.DuplicateKeys) > 0 {
		b.WriteString("## Duplicate key fields\n\n")
		b.WriteString("| Field | Duplicates |\n|---|---|\n")
		fields := make([]string, 0, len(report.DuplicateKeys))
		for f := range report.DuplicateKeys {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(&b, "| `%s` | %d |\n", f, report.DuplicateKeys[f])
		}
		b.WriteString("\n")
	}

	if len(report.Errors) > 0 {
		b.WriteString("## Schema violations\n\n")
		b.WriteString("| Pointer | Message |\n|---|---|\n")
		n := len(report.Errors)
		if maxErrorsListed > 0 && n > maxErrorsListed {
			n = maxErrorsListed
		}
		for _, e := range report.Errors[:n] {
			fmt.Fprintf(&b, "| `%s` | %s |\n", e.Pointer, e.Message)
		}
		if n < len(report.Errors) {
			fmt.Fprintf(&b, "\n_...and %d more._\n", len(report.Errors)-n)
		}
	}

	return b.String()
}

// ToHTML renders report straight to HTML via gomarkdown, for callers that
// want a browsable QA artifact rather than raw Markdown.
func ToHTML(report ports.ValidationReport, maxErrorsListed int) []byte {
	return markdown.ToHTML([]byte(ToMarkdown(report, maxErrorsListed)), nil, nil)
}
