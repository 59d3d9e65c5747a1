package web

import (
	"strings"
	"testing"
)

func TestSummaryHTML(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    []string
		notWant []string
	}{
		{"empty", "  \n", nil, []string{"<p>"}},
		{"heading", "# Budget", []string{"<h1>Budget</h1>"}, nil},
		{"doc reference", "Supersedes doc-sample04.", []string{`<a href="/documents/doc-sample04">doc-sample04</a>.`}, nil},
		{"reference in parens", "(see doc-a-1)", []string{`(see <a href="/documents/doc-a-1">doc-a-1</a>)`}, nil},
		{"fenced code untouched", "```\ndoc-sample04\n```", []string{"<code>doc-sample04\n</code>"}, []string{"href"}},
		{"raw html dropped", "<script>alert(1)</script>", nil, []string{"<script>"}},
		{"strikethrough", "~~draft~~", []string{"<del>draft</del>"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := string(summaryHTML(tc.in))
			for _, w := range tc.want {
				if !strings.Contains(got, w) {
					t.Fatalf("expected %q in %q", w, got)
				}
			}
			for _, w := range tc.notWant {
				if strings.Contains(got, w) {
					t.Fatalf("unexpected %q in %q", w, got)
				}
			}
		})
	}
}
