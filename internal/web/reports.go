package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"docdesk/internal/filter"
	"docdesk/internal/report"
	"docdesk/internal/store"
)

const recentReports = 10

// reportState builds the form state from GET query or POST form values. The file type
// comes from the format field, falling back to the configured default on GET.
func (s *Server) reportState(values url.Values, useDefault bool) (filter.State, []string, error) {
	format := s.cfg.DefaultFormat
	if !useDefault {
		format = ""
	}
	base, err := s.cfg.Catalog.ReportState(format)
	if err != nil {
		return filter.State{}, nil, err
	}
	st, problems := stateFromQuery(base, values)
	if values.Has("format") {
		f, err := filter.ParseOutputFormat(values.Get("format"))
		if err == nil {
			st, err = st.ApplyOutputFormat(f)
		}
		if err != nil {
			problems = append(problems, err.Error())
		}
	}
	return st, problems, nil
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	st, problems, err := s.reportState(r.URL.Query(), true)
	if err != nil {
		s.httpError(w, err)
		return
	}
	s.renderReports(w, r, http.StatusOK, st, problems, "")
}

// handleReportCreate translates the posted form and queues the request. A missing file
// type re-renders the form with a validation message and queues nothing.
func (s *Server) handleReportCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	st, problems, err := s.reportState(r.PostForm, false)
	if err != nil {
		s.httpError(w, err)
		return
	}
	if len(problems) > 0 {
		s.renderReports(w, r, http.StatusUnprocessableEntity, st, problems, "")
		return
	}
	rec, err := report.Submit(r.Context(), store.ReportQueue{Store: s.cfg.Store}, st)
	if errors.Is(err, report.ErrMissingOutputFormat) {
		s.renderReports(w, r, http.StatusUnprocessableEntity, st, nil, "Select a file type before generating the report.")
		return
	}
	if err != nil {
		s.httpError(w, err)
		return
	}
	s.log.Info("report queued", "id", rec.ID, "format", string(rec.Request.OutputFormat))
	setNotice(w, "Report queued: "+rec.ID)
	http.Redirect(w, r, "/reports", http.StatusSeeOther)
}

func (s *Server) renderReports(w http.ResponseWriter, r *http.Request, status int, st filter.State, problems []string, formErr string) {
	ctx := r.Context()
	vm := reportsVM{
		baseVM:  s.baseVMForRequest(w, r, "Reports", "reports"),
		Toolbar: toolbarOf("/reports", st, problems),
		Error:   formErr,
	}
	for _, o := range filter.OutputFormats() {
		vm.Formats = append(vm.Formats, optionVM{Value: o.Value, Label: o.Label, Selected: o.Value == string(st.OutputFormat())})
	}
	if _, err := report.Translate(st); err == nil {
		docs, err := s.cfg.Store.ListDocuments(ctx)
		if err != nil {
			s.httpError(w, err)
			return
		}
		vm.Matched = len(filter.Apply(st, docs))
	}
	recs, err := s.cfg.Store.ListReports(ctx, recentReports)
	if err != nil {
		s.httpError(w, err)
		return
	}
	for _, rec := range recs {
		vm.Requests = append(vm.Requests, reportRowVM{
			ID:        rec.ID,
			Submitted: rec.SubmittedAt.Format("2006-01-02 15:04"),
			State:     rec.State,
			Format:    rec.Request.OutputFormat.Label(),
			Filters:   requestSummary(rec.Request),
		})
	}
	s.writeHTMLTemplate(w, status, "reports.html", vm)
}

func requestSummary(req report.Request) string {
	var parts []string
	sels := []struct {
		name string
		sel  report.Selection
	}{
		{"Offices", req.Offices},
		{"Classification", req.Classification},
		{"Type", req.Type},
	}
	for _, s := range sels {
		if !s.sel.IsAll() {
			parts = append(parts, s.name+": "+string(s.sel))
		}
	}
	if rng, err := req.DateRange.Range(); err == nil && !rng.IsUnset() {
		parts = append(parts, rng.Label())
	}
	if len(parts) == 0 {
		return "All documents"
	}
	return strings.Join(parts, ", ")
}
