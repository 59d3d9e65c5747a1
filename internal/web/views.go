package web

import (
	"html/template"
	"net/http"

	"docdesk/internal/actions"
	"docdesk/internal/filter"
	"docdesk/internal/model"
	"docdesk/internal/perm"
)

type baseVM struct {
	Title  string
	Nav    string
	Notice string
	Actor  string
}

func (s *Server) baseVMForRequest(w http.ResponseWriter, r *http.Request, title, nav string) baseVM {
	actor := "local operator"
	if a := s.cfg.Actor; a != nil {
		actor = a.Profile() + " (" + s.cfg.Catalog.Label("role", a.Role) + ")"
	}
	return baseVM{Title: title, Nav: nav, Notice: takeNotice(w, r), Actor: actor}
}

type optionVM struct {
	Value    string
	Label    string
	Selected bool
}

type facetVM struct {
	ID      string
	Label   string
	Active  bool
	Options []optionVM
}

// toolbarVM is a table's filter form. ResetURL is only set while a filter is active.
type toolbarVM struct {
	Action   string
	Facets   []facetVM
	Search   string
	From     string
	To       string
	Summary  []string
	Problems []string
	ResetURL string
}

func toolbarOf(path string, st filter.State, problems []string) toolbarVM {
	tb := toolbarVM{
		Action:   path,
		Search:   st.SearchTerm(),
		Summary:  st.Summary(),
		Problems: problems,
	}
	for _, f := range st.Facets().Facets() {
		if f.Kind != filter.KindCategorical {
			continue
		}
		fv := facetVM{ID: f.ID, Label: f.Label, Active: f.IsActive()}
		fv.Options = append(fv.Options, optionVM{Value: filter.All, Label: "All", Selected: f.Value.Text == filter.All})
		for _, o := range f.Options {
			fv.Options = append(fv.Options, optionVM{Value: o.Value, Label: o.Label, Selected: f.Value.Text == o.Value})
		}
		tb.Facets = append(tb.Facets, fv)
	}
	r := st.DateRange()
	if r.From != nil {
		tb.From = r.From.Format(filter.DateLayout)
	}
	if r.To != nil {
		tb.To = r.To.Format(filter.DateLayout)
	}
	if st.IsActive() {
		tb.ResetURL = path
	}
	return tb
}

type pageVM struct {
	Number  int
	Pages   int
	Total   int
	Summary string
	PrevURL string
	NextURL string
}

func pageOf[T any](path string, st filter.State, p filter.Page[T], summary string) pageVM {
	vm := pageVM{Number: p.Number, Pages: p.Pages, Total: p.Total, Summary: summary}
	if p.HasPrev() {
		vm.PrevURL = pageURL(path, st, p.Number-1)
	}
	if p.HasNext() {
		vm.NextURL = pageURL(path, st, p.Number+1)
	}
	return vm
}

// rowActionsVM says which row actions the actor may use.
type rowActionsVM struct {
	Copy         bool
	View         bool
	Edit         bool
	Release      bool
	ChangeStatus bool
	Delete       bool
}

func rowActionsFor(actor *model.User) rowActionsVM {
	return rowActionsVM{
		Copy:         perm.CanApply(actor, actions.CopyID),
		View:         perm.CanApply(actor, actions.View),
		Edit:         perm.CanApply(actor, actions.Edit),
		Release:      perm.CanApply(actor, actions.Release),
		ChangeStatus: perm.CanApply(actor, actions.ChangeStatus),
		Delete:       perm.CanApply(actor, actions.Delete),
	}
}

// rowActionsArgs feeds the shared row-actions template.
type rowActionsArgs struct {
	Can rowActionsVM
	Doc documentRowVM
}

func rowActionsOf(can rowActionsVM, doc documentRowVM) rowActionsArgs {
	return rowActionsArgs{Can: can, Doc: doc}
}

type documentRowVM struct {
	model.Document
	DateText       string
	StatusLabel    string
	OfficeLabel    string
	ClassLabel     string
	TypeLabel      string
	StatusOptions  []optionVM
	ReleasedAtText string
}

func (s *Server) documentRow(d model.Document) documentRowVM {
	c := s.cfg.Catalog
	row := documentRowVM{
		Document:    d,
		StatusLabel: c.Label("status", d.Status),
		OfficeLabel: c.Label("office", d.Office),
		ClassLabel:  c.Label("classification", d.Classification),
		TypeLabel:   c.Label("type", d.Type),
	}
	if !d.Date.IsZero() {
		row.DateText = d.Date.Format(filter.DateLayout)
	}
	if d.ReleasedAt != nil {
		row.ReleasedAtText = d.ReleasedAt.Format(filter.DateLayout)
	}
	for _, sd := range c.DocumentStatuses {
		row.StatusOptions = append(row.StatusOptions, optionVM{Value: sd.ID, Label: sd.Label, Selected: sd.ID == d.Status})
	}
	return row
}

type documentsVM struct {
	baseVM
	Toolbar toolbarVM
	Rows    []documentRowVM
	Page    pageVM
	Can     rowActionsVM
}

type documentVM struct {
	baseVM
	Doc     documentRowVM
	Summary template.HTML
	Can     rowActionsVM
}

type userRowVM struct {
	model.User
	Profile     string
	RoleLabel   string
	StatusLabel string
	CreatedText string
}

type usersVM struct {
	baseVM
	Toolbar toolbarVM
	Rows    []userRowVM
	Page    pageVM
}

type reportRowVM struct {
	ID        string
	Submitted string
	State     string
	Format    string
	Filters   string
}

type reportsVM struct {
	baseVM
	Toolbar  toolbarVM
	Formats  []optionVM
	Matched  int
	Error    string
	Requests []reportRowVM
}
