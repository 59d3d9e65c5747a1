// Package docs embeds the help topics shown by `docdesk docs` and the TUI help pane.
package docs

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

//go:embed content/*.md
var contentFS embed.FS

type Topic struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// List returns every topic sorted by name. Title is the first markdown heading.
func List() []Topic {
	paths, err := fs.Glob(contentFS, "content/*.md")
	if err != nil {
		return nil
	}
	out := make([]Topic, 0, len(paths))
	for _, p := range paths {
		name := strings.TrimSuffix(path.Base(p), ".md")
		body, _ := contentFS.ReadFile(p)
		out = append(out, Topic{Name: name, Title: title(string(body), name)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func title(body, fallback string) string {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return fallback
}

func Get(topic string) (string, bool) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return "", false
	}
	b, err := contentFS.ReadFile(path.Join("content", topic+".md"))
	if err != nil {
		return "", false
	}
	return string(b), true
}

var (
	rendererMu sync.Mutex
	// Keyed by style and wrap width. A fixed style avoids WithAutoStyle, which queries
	// the terminal and can block.
	renderers = map[string]*glamour.TermRenderer{}
)

// Style is the glamour standard style used for rendering ("dark" or "light").
var Style = "dark"

// Render renders markdown for a terminal of the given width.
func Render(markdown string, width int) (string, error) {
	if width < 10 {
		width = 80
	}
	rendererMu.Lock()
	defer rendererMu.Unlock()
	key := Style + ":" + strconv.Itoa(width)
	r := renderers[key]
	if r == nil {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(Style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		renderers[key] = r
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
