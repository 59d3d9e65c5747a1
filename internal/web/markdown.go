package web

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Summaries are short abstracts: tables, strikethrough and bare URLs, no task lists.
// Raw HTML is never passed through, so the output can be trusted as template.HTML.
var summaryMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify, emoji.Emoji),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// docRef finds bare document ids such as "see doc-sample04".
var docRef = regexp.MustCompile(`(^|[\s(])(doc-[A-Za-z0-9_]+(?:-[A-Za-z0-9_]+)*)`)

// linkDocRefs turns bare document ids into links to their detail pages. Fenced code is
// left alone.
func linkDocRefs(src string) string {
	var b strings.Builder
	fenced := false
	for _, line := range strings.SplitAfter(src, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			fenced = !fenced
			b.WriteString(line)
			continue
		}
		if !fenced {
			line = docRef.ReplaceAllString(line, "$1[$2](/documents/$2)")
		}
		b.WriteString(line)
	}
	return b.String()
}

func summaryHTML(summary string) template.HTML {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return ""
	}
	var b bytes.Buffer
	if err := summaryMarkdown.Convert([]byte(linkDocRefs(summary)), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(summary) + "</pre>")
	}
	return template.HTML(b.String())
}
