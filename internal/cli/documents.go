package cli

import (
	"fmt"
	"strings"
	"time"

	"docdesk/internal/actions"
	"docdesk/internal/catalog"
	"docdesk/internal/filter"
	"docdesk/internal/model"
	"docdesk/internal/publish"
	"docdesk/internal/statusutil"

	"github.com/spf13/cobra"
)

func newDocumentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"doc"},
		Short:   "List, filter and act on documents",
	}
	cmd.AddCommand(newDocumentsListCmd(app))
	cmd.AddCommand(newDocumentsShowCmd(app))
	cmd.AddCommand(newDocumentsActionCmd(app, "copy-id <id>", "Copy a document id to the clipboard", actions.CopyID))
	cmd.AddCommand(newDocumentsActionCmd(app, "release <id>", "Release a document (idempotent)", actions.Release))
	cmd.AddCommand(newDocumentsActionCmd(app, "delete <id>", "Delete a document", actions.Delete))
	cmd.AddCommand(newDocumentsSetStatusCmd(app))
	cmd.AddCommand(newDocumentsRetitleCmd(app))
	cmd.AddCommand(newDocumentsExportCmd(app))
	return cmd
}

// documentPage is the documents list payload; it also prints as a table.
type documentPage struct {
	filter.Page[model.Document]
	cat *catalog.Catalog
}

func (p documentPage) MarshalJSON() ([]byte, error) {
	return jsonOf(p.Rows)
}

func (p documentPage) TableHeader() []string {
	return []string{"id", "date", "title", "status", "office", "classification", "type"}
}

func (p documentPage) TableRows() [][]string {
	out := make([][]string, 0, len(p.Rows))
	for _, d := range p.Rows {
		date := ""
		if !d.Date.IsZero() {
			date = d.Date.Format(filter.DateLayout)
		}
		out = append(out, []string{
			d.ID, date, d.Title,
			p.cat.Label("status", d.Status),
			p.cat.Label("office", d.Office),
			p.cat.Label("classification", d.Classification),
			p.cat.Label("type", d.Type),
		})
	}
	return out
}

func (p documentPage) TableFooter() string {
	return fmt.Sprintf("page %d of %d, %d of %d documents", p.Number, p.Pages, len(p.Rows), p.Total)
}

func newDocumentsListCmd(app *App) *cobra.Command {
	var page, pageSize int
	var ff *filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents matching the filters",
		Example: strings.TrimSpace(`
docdesk documents list --office records --classification confidential
docdesk documents list --dates 2024-03-01.. --search memo --format table
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := loadCatalog(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := c.DocumentState()
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err = ff.apply(cmd, st)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			docs, err := s.ListDocuments(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			if pageSize <= 0 {
				if cfg, err := app.config(); err == nil {
					pageSize = cfg.PageSize()
				}
			}
			matched := filter.Apply(st, docs)
			p := filter.Paginate(matched, page, pageSize)

			var hints []string
			if p.HasNext() {
				hints = append(hints, fmt.Sprintf("more results: --page %d", p.Number+1))
			}
			if st.IsActive() && p.Total == 0 {
				hints = append(hints, "no documents match; drop a filter or run without filters")
			}
			meta := filterMeta(st)
			meta["total"] = p.Total
			meta["page"] = p.Number
			meta["pages"] = p.Pages
			meta["pageSize"] = p.Size
			meta["returned"] = len(p.Rows)
			meta["unfiltered"] = len(docs)
			return writeOut(cmd, app, map[string]any{
				"data":   documentPage{Page: p, cat: c},
				"meta":   meta,
				"_hints": nonNil(hints),
			})
		},
	}
	ff = addFilterFlags(cmd, app, (*catalog.Catalog).DocumentFacets, true)
	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, fmt.Sprintf("Rows per page (default %d)", filter.DefaultPageSize))
	return cmd
}

func newDocumentsExportCmd(app *App) *cobra.Command {
	var out string
	var overwrite bool
	var ff *filterFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the matching documents as Markdown files",
		Example: strings.TrimSpace(`
docdesk documents export --out ./out --office records
docdesk documents export --out ./out --dates 2024-01-01.. --overwrite
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := loadCatalog(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := c.DocumentState()
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err = ff.apply(cmd, st)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			docs, err := s.ListDocuments(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			matched := filter.Apply(st, docs)
			res, err := publish.WriteDocuments(matched, c, out, publish.WriteOptions{
				Overwrite: overwrite,
				Summary:   st.Summary(),
				Now:       time.Now(),
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			meta := filterMeta(st)
			meta["exported"] = len(matched)
			return writeOut(cmd, app, map[string]any{
				"data":   res,
				"meta":   meta,
				"_hints": []string{},
			})
		},
	}
	ff = addFilterFlags(cmd, app, (*catalog.Catalog).DocumentFacets, true)
	cmd.Flags().StringVar(&out, "out", "", "Output directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newDocumentsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocumentAction(cmd, app, args[0], actions.Do(actions.View))
		},
	}
}

func newDocumentsActionCmd(app *App, use, short string, k actions.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocumentAction(cmd, app, args[0], actions.Do(k))
		},
	}
}

func newDocumentsSetStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Change a document's status (id or label)",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 1 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			c, err := loadCatalog(app)
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			var out []string
			for _, d := range c.DocumentStatuses {
				out = append(out, d.ID+"\t"+d.Label)
			}
			return out, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			status, err := statusutil.NormalizeStatusID(c.DocumentStatuses, args[1])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("%w: %v", filter.ErrInvalidValue, err))
			}
			return runDocumentAction(cmd, app, args[0], actions.SetStatus(status))
		},
	}
}

func newDocumentsRetitleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "retitle <id> <title>",
		Short: "Edit a document's title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := loadCatalog(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			doc, err := s.GetDocument(ctx, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			a, err := applier(ctx, app, s, c)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := newDispatcher(c, nil, a.Actor).Dispatch(actions.TargetOf(doc), actions.Do(actions.Edit)); err != nil {
				return writeErr(cmd, err)
			}
			updated, err := a.Retitle(ctx, doc.ID, args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": updated})
		},
	}
}

// runDocumentAction is the CLI's row action path: look the row up, dispatch the action
// into an intent, then hand the intent to the mutation collaborator.
func runDocumentAction(cmd *cobra.Command, app *App, id string, act actions.Action) error {
	ctx := cmd.Context()
	c, err := loadCatalog(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	s, err := openStore(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return writeErr(cmd, err)
	}
	a, err := applier(ctx, app, s, c)
	if err != nil {
		return writeErr(cmd, err)
	}

	d := newDispatcher(c, clipboardFor(), a.Actor)
	in, err := d.Dispatch(actions.TargetOf(doc), act)
	if err != nil {
		return writeErr(cmd, err)
	}
	res, err := a.Apply(ctx, in)
	if err != nil {
		return writeErr(cmd, err)
	}

	out := map[string]any{"data": res}
	var hints []string
	switch {
	case in.Kind == actions.CopyID:
		// The executor is inline, so the notice is already buffered.
		n := <-d.Notices()
		out["meta"] = map[string]any{"notice": n.Message(), "copied": n.Err == nil}
		if n.Err != nil {
			hints = append(hints, hintsFor(n.Err)...)
		}
	case in.IsNoop():
		hints = append(hints, "status unchanged: the document is already "+c.Label("status", in.NewStatus))
	case !res.Changed && in.Kind == actions.Release:
		hints = append(hints, "already released")
	}
	out["_hints"] = nonNil(hints)
	return writeOut(cmd, app, out)
}

// clipboardFor returns the system clipboard unless DOCDESK_CLIPBOARD=off.
func clipboardFor() actions.Clipboard {
	if strings.EqualFold(envOr("DOCDESK_CLIPBOARD", ""), "off") {
		return nil
	}
	return actions.SystemClipboard{}
}
