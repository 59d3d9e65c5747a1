// Package publish writes documents out as Markdown files.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docdesk/internal/catalog"
	"docdesk/internal/model"
)

type WriteOptions struct {
	Overwrite bool
	// Summary describes the filters that selected the documents; empty means all.
	Summary []string
	Now     time.Time
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteDocuments writes <to>/index.md and one <to>/documents/<id>.md per document.
func WriteDocuments(docs []model.Document, c *catalog.Catalog, toDir string, opt WriteOptions) (WriteResult, error) {
	if c == nil {
		return WriteResult{}, errors.New("missing catalog")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	docsDir := filepath.Join(toDir, "documents")
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(RenderIndexMarkdown(docs, c, opt.Summary, opt.Now)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stop on first error.
	written := []string{indexPath}
	for _, d := range docs {
		p := filepath.Join(docsDir, d.ID+".md")
		if err := writeFile(p, []byte(RenderDocumentMarkdown(d, c)), opt.Overwrite); err != nil {
			return WriteResult{Written: written}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
