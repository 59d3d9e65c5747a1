package cli

import (
	"fmt"
	"strings"

	"docdesk/internal/catalog"
	"docdesk/internal/filter"
	"docdesk/internal/report"
	"docdesk/internal/store"

	"github.com/spf13/cobra"
)

func newReportsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Queue and list report requests",
	}
	cmd.AddCommand(newReportsGenerateCmd(app))
	cmd.AddCommand(newReportsListCmd(app))
	return cmd
}

func newReportsGenerateCmd(app *App) *cobra.Command {
	var output string
	var preview bool
	var ff *filterFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Translate the report filters into a request and queue it",
		Example: strings.TrimSpace(`
docdesk reports generate --office records --from 2024-01-01 --to 2024-03-31 --output pdf
docdesk reports generate --classification confidential --output csv --preview
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !cmd.Flags().Changed("output") {
				if cfg, err := app.config(); err == nil {
					output = cfg.DefaultOutputFormat
				}
			}
			f, err := filter.ParseOutputFormat(output)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := c.ReportState(f)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err = ff.apply(cmd, st)
			if err != nil {
				return writeErr(cmd, err)
			}
			req, err := report.Translate(st)
			if err != nil {
				return writeErr(cmd, err)
			}

			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			docs, err := s.ListDocuments(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			matched := len(filter.Apply(st, docs))
			meta := filterMeta(st)
			meta["matchedDocuments"] = matched
			meta["params"] = req.Params()

			if preview {
				return writeOut(cmd, app, map[string]any{"data": req, "meta": meta})
			}
			rec, err := report.Submit(cmd.Context(), store.ReportQueue{Store: s}, st)
			if err != nil {
				return writeErr(cmd, err)
			}
			hints := []string{}
			if matched == 0 {
				hints = append(hints, "no documents match these filters; the report will be empty")
			}
			return writeOut(cmd, app, map[string]any{"data": rec, "meta": meta, "_hints": hints})
		},
	}
	ff = addFilterFlags(cmd, app, (*catalog.Catalog).ReportFacets, true)
	cmd.Flags().StringVar(&output, "output", "", "File type (pdf|excel|csv)")
	cmd.Flags().BoolVar(&preview, "preview", false, "Print the request without queueing it")
	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, o := range filter.OutputFormats() {
			out = append(out, o.Value+"\t"+o.Label)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

type reportList []report.Record

func (r reportList) TableHeader() []string {
	return []string{"id", "submitted", "state", "format", "offices", "classification", "type", "dates"}
}

func (r reportList) TableRows() [][]string {
	out := make([][]string, 0, len(r))
	for _, rec := range r {
		dates := "All Dates"
		if rng, err := rec.Request.DateRange.Range(); err == nil {
			dates = rng.Label()
		}
		out = append(out, []string{
			rec.ID,
			rec.SubmittedAt.Format("2006-01-02 15:04"),
			rec.State,
			rec.Request.OutputFormat.Label(),
			string(rec.Request.Offices),
			string(rec.Request.Classification),
			string(rec.Request.Type),
			dates,
		})
	}
	return out
}

func (r reportList) TableFooter() string { return fmt.Sprintf("%d report requests", len(r)) }

func newReportsListCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued report requests, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			recs, err := s.ListReports(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			if recs == nil {
				recs = []report.Record{}
			}
			return writeOut(cmd, app, map[string]any{
				"data": reportList(recs),
				"meta": map[string]any{"returned": len(recs), "limit": limit},
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Max requests to return (0 = all)")
	return cmd
}
