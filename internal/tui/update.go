package tui

import (
	"errors"
	"fmt"
	"strings"

	"docdesk/internal/actions"
	"docdesk/internal/filter"
	"docdesk/internal/model"
	"docdesk/internal/perm"
	"docdesk/internal/report"
	"docdesk/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.pickerOpen() {
			m.picker.SetSize(m.modalWidth(), m.picker.Height())
		}
		return m, nil

	case noticeMsg:
		m.showMinibuffer(actions.Notice(msg).Message())
		return m, waitForNotice(m.dispatcher.Notices())

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.modal {
		case modalSearch:
			return m.updateSearch(msg)
		case modalDates, modalRetitle:
			return m.updateInput(msg)
		case modalConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modalDetail:
			if k := msg.String(); k == "esc" || k == "q" || k == "enter" {
				m.modal = modalNone
				m.detail = nil
			}
			return m, nil
		}
		if m.pickerOpen() {
			return m.updatePicker(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m appModel) pickerOpen() bool {
	switch m.modal {
	case modalFacets, modalOptions, modalActions, modalStatus:
		return true
	}
	return false
}

func (m appModel) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.minibufferText = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.view = (m.view + 1) % view(len(viewNames))
	case "shift+tab":
		m.view = (m.view + view(len(viewNames)) - 1) % view(len(viewNames))
	case "up", "k", "ctrl+p":
		m.moveCursor(-1)
	case "down", "j", "ctrl+n":
		m.moveCursor(1)
	case "left", "h", "pgup":
		m.movePage(-1)
	case "right", "l", "pgdown":
		m.movePage(1)
	case "/":
		if m.view == viewReport {
			return m, nil
		}
		m.searchBefore = m.activeState()
		return m, m.openInput(modalSearch, "Search: ", m.activeState().SearchTerm(), "")
	case "f":
		m.openFacetPicker()
	case "d":
		return m, m.openInput(modalDates, "Dates: ", m.activeState().DateRange().String(), "YYYY-MM-DD..YYYY-MM-DD")
	case "o":
		if m.view == viewReport {
			m.openFormatPicker()
		}
	case "R":
		// Reset is only offered while a filter is active.
		if st := m.activeState(); st.IsActive() {
			m.setActiveState(st.ResetAll())
			m.showMinibuffer("Filters reset")
		}
	case "enter":
		if doc, ok := m.selectedDocument(); ok {
			m.openActionMenu(doc)
		}
	case "v":
		if doc, ok := m.selectedDocument(); ok {
			return m.runAction(doc, actions.Do(actions.View))
		}
	case "y":
		switch m.view {
		case viewDocuments:
			if doc, ok := m.selectedDocument(); ok {
				return m.runAction(doc, actions.Do(actions.CopyID))
			}
		case viewUsers:
			if u, ok := m.selectedUser(); ok {
				if _, err := m.dispatcher.Dispatch(actions.Target{ID: u.ID, Status: u.Status}, actions.Do(actions.CopyID)); err != nil {
					m.showActionError(actions.CopyID, err)
				}
			}
		}
	case "g":
		if m.view == viewReport {
			m.generateReport()
		}
	case "r":
		if err := m.reload(); err != nil {
			m.showMinibuffer("Reload failed: " + err.Error())
		} else {
			m.clampCursor()
			m.showMinibuffer("Reloaded")
		}
	}
	return m, nil
}

func (m *appModel) moveCursor(delta int) {
	t := m.tableFor()
	if t == nil {
		return
	}
	rows, _, _ := m.pageLen()
	next := t.cursor + delta
	if next < 0 || next >= rows {
		return
	}
	t.cursor = next
}

func (m *appModel) movePage(delta int) {
	t := m.tableFor()
	if t == nil {
		return
	}
	_, pages, number := m.pageLen()
	next := number + delta
	if next < 1 || next > pages {
		return
	}
	t.page = next
	t.cursor = 0
}

func (m *appModel) openInput(md modal, prompt, value, placeholder string) tea.Cmd {
	m.modal = md
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Width = m.modalWidth() - len(prompt) - 4
	return m.input.Focus()
}

func (m *appModel) closeInput() {
	m.modal = modalNone
	m.input.Blur()
	m.input.SetValue("")
}

// updateSearch filters live as the user types; esc restores the state from before.
func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.setActiveState(m.searchBefore)
		m.closeInput()
		return m, nil
	case "enter":
		m.closeInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.setActiveState(m.activeState().ApplySearchTerm(m.input.Value()))
	return m, cmd
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeInput()
		return m, nil
	case "enter":
		value := m.input.Value()
		md := m.modal
		m.closeInput()
		switch md {
		case modalDates:
			m.applyDates(value)
		case modalRetitle:
			m.retitle(value)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyDates parses "from..to", "from.." or a single day. An empty value clears the
// range. Rejected input leaves the state as it was.
func (m *appModel) applyDates(value string) {
	r, err := filter.ParseDateRange(value)
	if err == nil {
		var st filter.State
		st, err = m.activeState().ApplyDateRange(r)
		if err == nil {
			m.setActiveState(st)
			return
		}
	}
	m.showMinibuffer("Dates: " + err.Error())
}

func (m *appModel) retitle(title string) {
	if strings.TrimSpace(title) == "" || title == m.actionDoc.Title {
		return
	}
	if _, err := m.applier.Retitle(m.ctx, m.actionDoc.ID, title); err != nil {
		m.showMinibuffer("Edit failed: " + err.Error())
		return
	}
	m.afterMutation("Renamed " + m.actionDoc.ID)
}

func (m *appModel) openFacetPicker() {
	facets := m.activeState().Facets().Facets()
	items := make([]pickItem, 0, len(facets))
	for _, f := range facets {
		if f.Kind != filter.KindCategorical {
			continue
		}
		items = append(items, pickItem{value: f.ID, label: f.Label, note: f.ValueLabel()})
	}
	if len(items) == 0 {
		return
	}
	m.picker = newPicker("Filter", items, 0)
	m.picker.SetSize(m.modalWidth(), len(items)+2)
	m.modal = modalFacets
}

func (m *appModel) openOptionPicker(facetID string) {
	f, ok := m.activeState().Facets().Facet(facetID)
	if !ok {
		return
	}
	items := []pickItem{{value: filter.All, label: "All"}}
	for _, o := range f.Options {
		items = append(items, pickItem{value: o.Value, label: o.Label})
	}
	selected := 0
	for i, it := range items {
		if it.value == f.Value.Text {
			items[i].note = "current"
			selected = i
		}
	}
	m.picker = newPicker(f.Label, items, selected)
	m.picker.SetSize(m.modalWidth(), len(items)+2)
	m.pickFacet = facetID
	m.modal = modalOptions
}

// formatFacet is the pseudo facet id the options picker uses for the file type.
const formatFacet = "outputFormat"

func (m *appModel) openFormatPicker() {
	cur := string(m.reportState.OutputFormat())
	var items []pickItem
	selected := 0
	for i, o := range filter.OutputFormats() {
		it := pickItem{value: o.Value, label: o.Label}
		if o.Value == cur {
			it.note = "current"
			selected = i
		}
		items = append(items, it)
	}
	m.picker = newPicker("File type", items, selected)
	m.picker.SetSize(m.modalWidth(), len(items)+2)
	m.pickFacet = formatFacet
	m.modal = modalOptions
}

func (m *appModel) openActionMenu(doc model.Document) {
	var items []pickItem
	for _, k := range perm.Allowed(m.applier.Actor, actions.Kinds()) {
		items = append(items, pickItem{value: k.String(), label: k.Label()})
	}
	if len(items) == 0 {
		m.showMinibuffer("No actions available")
		return
	}
	m.actionDoc = doc
	m.picker = newPicker(doc.ID, items, 0)
	m.picker.SetSize(m.modalWidth(), len(items)+2)
	m.modal = modalActions
}

// openStatusPicker lists the status enumeration with the row's current status marked.
func (m *appModel) openStatusPicker() {
	var items []pickItem
	selected := 0
	for i, s := range m.dispatcher.Statuses() {
		it := pickItem{value: s.ID, label: s.Label}
		if s.ID == m.actionDoc.Status {
			it.note = "current"
			selected = i
		}
		items = append(items, it)
	}
	m.picker = newPicker("Change Status", items, selected)
	m.picker.SetSize(m.modalWidth(), len(items)+2)
	m.modal = modalStatus
}

func (m appModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		if m.modal == modalStatus {
			m.openActionMenu(m.actionDoc)
			return m, nil
		}
		m.modal = modalNone
		return m, nil
	case "enter":
		it, ok := selectedPick(m.picker)
		if !ok {
			m.modal = modalNone
			return m, nil
		}
		return m.pick(it)
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m appModel) pick(it pickItem) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalFacets:
		m.openOptionPicker(it.value)
		return m, nil
	case modalOptions:
		m.modal = modalNone
		var (
			st  filter.State
			err error
		)
		if m.pickFacet == formatFacet {
			st, err = m.reportState.ApplyOutputFormat(filter.OutputFormat(it.value))
		} else {
			st, err = m.activeState().ApplyFacetChange(m.pickFacet, filter.Text(it.value))
		}
		if err != nil {
			m.showMinibuffer(err.Error())
			return m, nil
		}
		m.setActiveState(st)
		return m, nil
	case modalStatus:
		m.modal = modalNone
		return m.runAction(m.actionDoc, actions.SetStatus(it.value))
	case modalActions:
		k, err := actions.ParseKind(it.value)
		if err != nil {
			m.modal = modalNone
			m.showMinibuffer(err.Error())
			return m, nil
		}
		switch k {
		case actions.ChangeStatus:
			m.openStatusPicker()
			return m, nil
		case actions.Delete:
			m.modal = modalConfirmDelete
			return m, nil
		}
		m.modal = modalNone
		return m.runAction(m.actionDoc, actions.Do(k))
	}
	m.modal = modalNone
	return m, nil
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.modal = modalNone
		return m.runAction(m.actionDoc, actions.Do(actions.Delete))
	case "n", "N", "esc", "q":
		m.modal = modalNone
	}
	return m, nil
}

func (m *appModel) showActionError(k actions.Kind, err error) {
	var denied perm.DeniedError
	if errors.As(err, &denied) {
		m.showMinibuffer("Not allowed: " + denied.Error())
		return
	}
	m.showMinibuffer(k.Label() + " failed: " + err.Error())
}

// runAction dispatches act on doc and hands the intent to the applier.
func (m appModel) runAction(doc model.Document, act actions.Action) (tea.Model, tea.Cmd) {
	in, err := m.dispatcher.Dispatch(actions.TargetOf(doc), act)
	if err != nil {
		m.showActionError(act.Kind, err)
		return m, nil
	}
	res, err := m.applier.Apply(m.ctx, in)
	if err != nil {
		m.showActionError(in.Kind, err)
		return m, nil
	}
	switch {
	case in.Kind == actions.CopyID:
		// The clipboard outcome arrives as a noticeMsg.
	case in.Kind == actions.View && res.Document != nil:
		m.detail = res.Document
		m.modal = modalDetail
	case in.Kind == actions.Edit:
		m.actionDoc = doc
		return m, m.openInput(modalRetitle, "Title: ", doc.Title, "")
	case in.IsNoop():
		m.showMinibuffer("Status unchanged: already " + m.cat.Label("status", in.NewStatus))
	case in.Kind == actions.Release && !res.Changed:
		m.showMinibuffer("Already released")
	case in.Kind == actions.Delete:
		m.afterMutation("Deleted " + in.ID)
	case in.Kind == actions.Release:
		m.afterMutation("Released " + in.ID)
	case in.Kind == actions.ChangeStatus:
		m.afterMutation(fmt.Sprintf("%s: %s", in.ID, m.cat.Label("status", in.NewStatus)))
	}
	return m, nil
}

func (m *appModel) afterMutation(notice string) {
	if err := m.reload(); err != nil {
		m.showMinibuffer("Reload failed: " + err.Error())
		return
	}
	m.clampCursor()
	m.showMinibuffer(notice)
}

// generateReport translates the form and queues the request. A missing file type is a
// validation message, not an error.
func (m *appModel) generateReport() {
	rec, err := report.Submit(m.ctx, store.ReportQueue{Store: m.store}, m.reportState)
	switch {
	case errors.Is(err, report.ErrMissingOutputFormat):
		m.showMinibuffer("Select a file type (o) before generating")
	case err != nil:
		m.showMinibuffer("Generate failed: " + err.Error())
	default:
		m.lastReport = &rec
		m.showMinibuffer("Report queued: " + rec.ID)
	}
}
