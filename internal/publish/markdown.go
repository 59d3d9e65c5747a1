package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"docdesk/internal/catalog"
	"docdesk/internal/filter"
	"docdesk/internal/model"
)

func RenderDocumentMarkdown(d model.Document, c *catalog.Catalog) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(d.Title))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + d.ID)
	writeLn("- Status: " + c.Label("status", d.Status))
	writeLn("- Office: " + c.Label("office", d.Office))
	writeLn("- Classification: " + c.Label("classification", d.Classification))
	writeLn("- Type: " + c.Label("type", d.Type))
	if !d.Date.IsZero() {
		writeLn("- Date: " + d.Date.Format(filter.DateLayout))
	}
	if d.ReleasedAt != nil {
		writeLn("- Released: " + d.ReleasedAt.UTC().Format(time.RFC3339))
	}
	writeLn("- Updated: " + d.UpdatedAt.UTC().Format(time.RFC3339))

	if body := strings.TrimSpace(d.Summary); body != "" {
		writeLn("")
		writeLn("## Summary")
		writeLn("")
		writeLn(demoteHeadings(body))
	}
	return buf.String()
}

// demoteHeadings pushes ATX headings two levels down so a summary nests under "## Summary".
func demoteHeadings(md string) string {
	lines := strings.Split(md, "\n")
	inFence := false
	for i, ln := range lines {
		trimmed := strings.TrimSpace(ln)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if !inFence && strings.HasPrefix(ln, "#") {
			lines[i] = "##" + ln
		}
	}
	return strings.Join(lines, "\n")
}

func RenderIndexMarkdown(docs []model.Document, c *catalog.Catalog, summary []string, now time.Time) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# Documents")
	writeLn("")
	if len(summary) == 0 {
		writeLn("Filters: none (all documents)")
	} else {
		writeLn("Filters: " + strings.Join(summary, ", "))
	}
	if !now.IsZero() {
		writeLn("")
		writeLn("Exported " + now.UTC().Format(time.RFC3339))
	}
	writeLn("")
	if len(docs) == 0 {
		writeLn("No documents match.")
		return buf.String()
	}
	for _, d := range docs {
		date := ""
		if !d.Date.IsZero() {
			date = ", " + d.Date.Format(filter.DateLayout)
		}
		writeLn(fmt.Sprintf("- [%s](documents/%s.md) (%s, %s%s)", strings.TrimSpace(d.Title), d.ID, d.ID, c.Label("status", d.Status), date))
	}
	return buf.String()
}
