package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"docdesk/internal/catalog"
	"docdesk/internal/model"
)

func testDocs(now time.Time) []model.Document {
	return []model.Document{
		{ID: "doc-a", Title: "Budget Memo", Summary: "# Budget\n\nSome **markdown**.\n\n```\n# not a heading\n```", Status: "pending", Office: "records", Classification: "public", Type: "memo", Date: now, CreatedAt: now, UpdatedAt: now},
		{ID: "doc-b", Title: "Audit Report", Status: "released", Office: "finance", Classification: "internal", Type: "report", Date: now.AddDate(0, 0, -7), CreatedAt: now, UpdatedAt: now},
	}
}

func TestRenderDocumentMarkdown_MetaAndSummary(t *testing.T) {
	t.Parallel()

	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	md := RenderDocumentMarkdown(testDocs(now)[0], c)

	for _, want := range []string{"# Budget Memo\n", "- Status: Pending", "- Office: Records Office", "- Date: 2024-06-01", "## Summary", "### Budget", "Some **markdown**."} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
	if !strings.Contains(md, "\n# not a heading\n") {
		t.Fatalf("fenced code must be left alone:\n%s", md)
	}
}

func TestWriteDocuments_WritesIndexAndDocuments(t *testing.T) {
	t.Parallel()

	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := t.TempDir()

	res, err := WriteDocuments(testDocs(now), c, to, WriteOptions{Summary: []string{"Type: Memorandum"}, Now: now})
	if err != nil {
		t.Fatalf("WriteDocuments: %v", err)
	}
	if len(res.Written) != 3 {
		t.Fatalf("expected 3 written files; got %v", res.Written)
	}
	index, err := os.ReadFile(filepath.Join(to, "index.md"))
	if err != nil {
		t.Fatalf("read index.md: %v", err)
	}
	if !strings.Contains(string(index), "Filters: Type: Memorandum") || !strings.Contains(string(index), "[Audit Report](documents/doc-b.md)") {
		t.Fatalf("unexpected index:\n%s", index)
	}
	if _, err := os.Stat(filepath.Join(to, "documents", "doc-a.md")); err != nil {
		t.Fatalf("stat doc-a.md: %v", err)
	}

	if _, err := WriteDocuments(testDocs(now), c, to, WriteOptions{}); err == nil || !strings.Contains(err.Error(), "--overwrite") {
		t.Fatalf("expected overwrite error, got %v", err)
	}
	if _, err := WriteDocuments(testDocs(now), c, to, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}
