package web

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"docdesk/internal/actions"
	"docdesk/internal/filter"
	"docdesk/internal/perm"

	"github.com/starfederation/datastar-go/datastar"
)

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	base, err := s.cfg.Catalog.DocumentState()
	if err != nil {
		s.httpError(w, err)
		return
	}
	q := r.URL.Query()
	st, problems := stateFromQuery(base, q)

	docs, err := s.cfg.Store.ListDocuments(r.Context())
	if err != nil {
		s.httpError(w, err)
		return
	}
	p := filter.Paginate(filter.Apply(st, docs), pageParam(q), s.cfg.PageSize)

	vm := documentsVM{
		baseVM:  s.baseVMForRequest(w, r, "Documents", "documents"),
		Toolbar: toolbarOf("/documents", st, problems),
		Page:    pageOf("/documents", st, p, fmt.Sprintf("%d of %s", p.Total, countLabel(len(docs), "document", "documents"))),
		Can:     rowActionsFor(s.cfg.Actor),
	}
	for _, d := range p.Rows {
		vm.Rows = append(vm.Rows, s.documentRow(d))
	}
	s.writeHTMLTemplate(w, http.StatusOK, "documents.html", vm)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.cfg.Store.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		s.httpError(w, err)
		return
	}
	in, err := s.dispatcher(nil).Dispatch(actions.TargetOf(doc), actions.Do(actions.View))
	if err != nil {
		s.httpError(w, err)
		return
	}
	res, err := s.applier().Apply(r.Context(), in)
	if err != nil {
		s.httpError(w, err)
		return
	}
	vm := documentVM{
		baseVM:  s.baseVMForRequest(w, r, doc.Title, "documents"),
		Doc:     s.documentRow(*res.Document),
		Summary: summaryHTML(res.Document.Summary),
		Can:     rowActionsFor(s.cfg.Actor),
	}
	s.writeHTMLTemplate(w, http.StatusOK, "document.html", vm)
}

// handleDocumentAction runs a row action posted by a table or detail form:
// action=release|delete|change-status|edit|view, plus status or title.
func (s *Server) handleDocumentAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := s.cfg.Store.GetDocument(ctx, r.PathValue("id"))
	if err != nil {
		s.httpError(w, err)
		return
	}
	kind, err := actions.ParseKind(r.Form.Get("action"))
	if err != nil {
		s.httpError(w, err)
		return
	}
	act := actions.Do(kind)
	if kind == actions.ChangeStatus {
		act = actions.SetStatus(strings.TrimSpace(r.Form.Get("status")))
	}
	in, err := s.dispatcher(nil).Dispatch(actions.TargetOf(doc), act)
	if err != nil {
		s.httpError(w, err)
		return
	}
	a := s.applier()
	res, err := a.Apply(ctx, in)
	if err != nil {
		s.httpError(w, err)
		return
	}

	switch {
	case in.Kind == actions.View:
		http.Redirect(w, r, "/documents/"+doc.ID, http.StatusSeeOther)
		return
	case in.Kind == actions.Edit:
		title := strings.TrimSpace(r.Form.Get("title"))
		if title == "" || title == doc.Title {
			http.Redirect(w, r, "/documents/"+doc.ID, http.StatusSeeOther)
			return
		}
		if _, err := a.Retitle(ctx, doc.ID, title); err != nil {
			s.httpError(w, err)
			return
		}
		setNotice(w, "Renamed "+doc.ID)
		http.Redirect(w, r, "/documents/"+doc.ID, http.StatusSeeOther)
		return
	case in.Kind == actions.CopyID:
		setNotice(w, "Document id: "+doc.ID)
	case in.IsNoop():
		setNotice(w, "Status unchanged: already "+s.cfg.Catalog.Label("status", in.NewStatus))
	case in.Kind == actions.Release && !res.Changed:
		setNotice(w, "Already released")
	case in.Kind == actions.Release:
		setNotice(w, "Released "+doc.ID)
	case in.Kind == actions.ChangeStatus:
		setNotice(w, doc.ID+": "+s.cfg.Catalog.Label("status", in.NewStatus))
	case in.Kind == actions.Delete:
		setNotice(w, "Deleted "+doc.ID)
		// The detail page is gone; go back to the table.
		if strings.Contains(r.Header.Get("Referer"), "/documents/"+doc.ID) {
			http.Redirect(w, r, "/documents", http.StatusSeeOther)
			return
		}
	}
	redirectBack(w, r, "/documents")
}

// sseClipboard is the browser's clipboard, written over the request's event stream.
type sseClipboard struct {
	sse *datastar.ServerSentEventGenerator
}

func (c sseClipboard) Write(_ context.Context, text string) error {
	lit, err := json.Marshal(text)
	if err != nil {
		return err
	}
	return c.sse.ExecuteScript(fmt.Sprintf("navigator.clipboard.writeText(%s)", lit))
}

// handleDocumentCopy answers a Datastar request: the copy script and a toast with the
// dispatcher's notice.
func (s *Server) handleDocumentCopy(w http.ResponseWriter, r *http.Request) {
	doc, err := s.cfg.Store.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		s.httpError(w, err)
		return
	}
	if err := perm.Check(s.cfg.Actor, actions.CopyID); err != nil {
		s.httpError(w, err)
		return
	}
	a := s.applier()
	sse := datastar.NewSSE(w, r)
	d := s.dispatcher(sseClipboard{sse: sse})

	toast := func(msg string) {
		html := `<span class="toast">` + template.HTMLEscapeString(msg) + `</span>`
		_ = sse.PatchElements(html, datastar.WithSelector("#toast"), datastar.WithMode(datastar.ElementPatchModeInner))
	}

	in, err := d.Dispatch(actions.TargetOf(doc), actions.Do(actions.CopyID))
	if err != nil {
		toast(err.Error())
		return
	}
	if _, err := a.Apply(r.Context(), in); err != nil {
		toast(err.Error())
		return
	}
	select {
	case n := <-d.Notices():
		toast(n.Message())
	default:
		toast("Copied: " + doc.ID)
	}
}
