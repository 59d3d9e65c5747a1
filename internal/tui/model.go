package tui

import (
	"context"

	"docdesk/internal/actions"
	"docdesk/internal/catalog"
	"docdesk/internal/filter"
	"docdesk/internal/logging"
	"docdesk/internal/model"
	"docdesk/internal/mutate"
	"docdesk/internal/perm"
	"docdesk/internal/report"
	"docdesk/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type view int

const (
	viewDocuments view = iota
	viewUsers
	viewReport
)

var viewNames = []string{"Documents", "Users", "Report"}

// modal is what currently owns the keyboard.
type modal int

const (
	modalNone modal = iota
	modalSearch
	modalFacets
	modalOptions
	modalDates
	modalActions
	modalStatus
	modalConfirmDelete
	modalRetitle
	modalDetail
)

type noticeMsg actions.Notice

// table is the per-view state of a filterable table.
type table struct {
	state  filter.State
	page   int
	cursor int
}

type appModel struct {
	ctx        context.Context
	store      store.Store
	cat        *catalog.Catalog
	applier    mutate.Applier
	dispatcher *actions.Dispatcher
	pageSize   int

	width  int
	height int

	view  view
	modal modal

	docs   []model.Document
	users  []model.User
	tables [2]table
	// reportState is the report form; it never filters a table.
	reportState filter.State
	lastReport  *report.Record

	input textinput.Model
	// searchBefore restores the state when a live search is cancelled.
	searchBefore filter.State
	picker       list.Model
	// pickFacet is the facet id the options picker edits.
	pickFacet string
	// actionDoc is the row the action menu, status picker or retitle input act on.
	actionDoc model.Document
	detail    *model.Document

	minibufferText string
}

func newAppModel(ctx context.Context, cfg Config) (appModel, error) {
	docState, err := cfg.Catalog.DocumentState()
	if err != nil {
		return appModel{}, err
	}
	userState, err := cfg.Catalog.UserState()
	if err != nil {
		return appModel{}, err
	}
	repState, err := cfg.Catalog.ReportState(cfg.DefaultFormat)
	if err != nil {
		return appModel{}, err
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = filter.DefaultPageSize
	}
	ti := textinput.New()
	ti.CharLimit = 200

	m := appModel{
		ctx:     ctx,
		store:   cfg.Store,
		cat:     cfg.Catalog,
		applier: cfg.Applier,
		dispatcher: actions.NewDispatcher(cfg.Catalog.DocumentStatuses, cfg.Clipboard,
			actions.WithGate(func(k actions.Kind) error { return perm.Check(cfg.Applier.Actor, k) }),
			actions.WithLogger(logging.With("component", "tui"))),
		pageSize:    pageSize,
		width:       100,
		height:      30,
		reportState: repState,
		input:       ti,
	}
	m.tables[viewDocuments] = table{state: docState, page: 1}
	m.tables[viewUsers] = table{state: userState, page: 1}
	if err := m.reload(); err != nil {
		return appModel{}, err
	}
	return m, nil
}

func (m appModel) Init() tea.Cmd {
	return waitForNotice(m.dispatcher.Notices())
}

// waitForNotice turns the dispatcher's next clipboard outcome into a message.
func waitForNotice(ch <-chan actions.Notice) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg(n)
	}
}

func (m *appModel) reload() error {
	docs, err := m.store.ListDocuments(m.ctx)
	if err != nil {
		return err
	}
	users, err := m.store.ListUsers(m.ctx)
	if err != nil {
		return err
	}
	m.docs = docs
	m.users = users
	return nil
}

func (m *appModel) showMinibuffer(s string) { m.minibufferText = s }

// tableFor returns the table behind the current view; the report form has none.
func (m *appModel) tableFor() *table {
	switch m.view {
	case viewDocuments, viewUsers:
		return &m.tables[m.view]
	}
	return nil
}

// activeState is the query state the toolbar keys edit.
func (m appModel) activeState() filter.State {
	if m.view == viewReport {
		return m.reportState
	}
	return m.tables[m.view].state
}

func (m *appModel) setActiveState(s filter.State) {
	if m.view == viewReport {
		m.reportState = s
		return
	}
	t := &m.tables[m.view]
	t.state = s
	// The row set changed; start from the top.
	t.page = 1
	t.cursor = 0
}

func (m appModel) documentPage() filter.Page[model.Document] {
	t := m.tables[viewDocuments]
	return filter.Paginate(filter.Apply(t.state, m.docs), t.page, m.pageSize)
}

func (m appModel) userPage() filter.Page[model.User] {
	t := m.tables[viewUsers]
	return filter.Paginate(filter.Apply(t.state, m.users), t.page, m.pageSize)
}

// pageLen is the number of rows on the current page and the page count.
func (m appModel) pageLen() (rows, pages, number int) {
	switch m.view {
	case viewDocuments:
		p := m.documentPage()
		return len(p.Rows), p.Pages, p.Number
	case viewUsers:
		p := m.userPage()
		return len(p.Rows), p.Pages, p.Number
	}
	return 0, 0, 0
}

func (m appModel) selectedDocument() (model.Document, bool) {
	if m.view != viewDocuments {
		return model.Document{}, false
	}
	p := m.documentPage()
	c := m.tables[viewDocuments].cursor
	if c < 0 || c >= len(p.Rows) {
		return model.Document{}, false
	}
	return p.Rows[c], true
}

func (m appModel) selectedUser() (model.User, bool) {
	if m.view != viewUsers {
		return model.User{}, false
	}
	p := m.userPage()
	c := m.tables[viewUsers].cursor
	if c < 0 || c >= len(p.Rows) {
		return model.User{}, false
	}
	return p.Rows[c], true
}

// clampCursor keeps the cursor and page in range after reloads and deletes.
func (m *appModel) clampCursor() {
	t := m.tableFor()
	if t == nil {
		return
	}
	rows, _, number := m.pageLen()
	t.page = number
	if t.cursor >= rows {
		t.cursor = rows - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}
