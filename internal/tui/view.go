package tui

import (
	"fmt"
	"strings"

	"docdesk/internal/docs"
	"docdesk/internal/filter"
	"docdesk/internal/model"
	"docdesk/internal/report"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const maxContentW = 120

func (m appModel) contentWidth() int {
	w := m.width - 2
	if w > maxContentW {
		w = maxContentW
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m appModel) modalWidth() int {
	w := m.contentWidth() / 2
	if w < 36 {
		w = 36
	}
	return w
}

func (m appModel) View() string {
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.view {
	case viewReport:
		b.WriteString(m.renderReportForm())
	default:
		b.WriteString(m.renderToolbar())
		b.WriteString("\n\n")
		if m.view == viewDocuments {
			b.WriteString(m.renderDocuments())
		} else {
			b.WriteString(m.renderUsers())
		}
	}

	if md := m.renderModal(); md != "" {
		b.WriteString("\n\n")
		b.WriteString(md)
	}
	b.WriteString("\n\n")
	b.WriteString(styleMuted().Render(m.helpLine()))
	if strings.TrimSpace(m.minibufferText) != "" {
		b.WriteString("\n")
		b.WriteString(m.minibufferText)
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

func (m appModel) renderTabs() string {
	parts := make([]string, len(viewNames))
	for i, name := range viewNames {
		if view(i) == m.view {
			parts[i] = tabActiveStyle.Render(name)
		} else {
			parts[i] = tabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderToolbar shows one chip per facet, then search and dates. The reset chip is
// only rendered while a filter is active.
func (m appModel) renderToolbar() string {
	st := m.activeState()
	var chips []string
	for _, f := range st.Facets().Facets() {
		style := chipStyle
		if f.IsActive() {
			style = chipOnStyle
		}
		chips = append(chips, style.Render(f.Label+": "+f.ValueLabel()))
	}
	if m.view != viewReport {
		search := "Search"
		style := chipStyle
		if q := st.Search(); q != "" {
			search = "Search: " + q
			style = chipOnStyle
		}
		chips = append(chips, style.Render(search))
	}
	dates := st.DateRange()
	style := chipStyle
	if !dates.IsUnset() {
		style = chipOnStyle
	}
	chips = append(chips, style.Render(dates.Label()))
	if st.IsActive() {
		chips = append(chips, errorStyle.Render("[R] Reset"))
	}
	line := strings.Join(chips, " ")
	if m.modal == modalSearch {
		line += "\n" + m.input.View()
	}
	return line
}

type column struct {
	title string
	width int
}

// layoutColumns gives fixed columns their width and the rest to the flexible one.
func layoutColumns(total int, cols []column, flex int) []column {
	used := 0
	for i, c := range cols {
		if i != flex {
			used += c.width + 2
		}
	}
	out := append([]column(nil), cols...)
	w := total - used - 2
	if w < 10 {
		w = 10
	}
	out[flex].width = w
	return out
}

func renderRow(cols []column, cells []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		cell = xansi.Truncate(cell, c.width, "…")
		if pad := c.width - xansi.StringWidth(cell); pad > 0 {
			cell += strings.Repeat(" ", pad)
		}
		parts[i] = cell
	}
	return strings.Join(parts, "  ")
}

func (m appModel) renderTable(cols []column, rows [][]string, cursor int, footer string) string {
	var lines []string
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	lines = append(lines, headerStyle.Render(renderRow(cols, titles)))
	if len(rows) == 0 {
		lines = append(lines, styleMuted().Render("No rows match the current filters."))
	}
	for i, r := range rows {
		line := renderRow(cols, r)
		if i == cursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", styleMuted().Render(footer))
	return strings.Join(lines, "\n")
}

func (m appModel) renderDocuments() string {
	p := m.documentPage()
	cols := layoutColumns(m.contentWidth(), []column{
		{"ID", 12}, {"Date", 10}, {"Title", 0}, {"Status", 9}, {"Office", 16}, {"Class", 12}, {"Type", 12},
	}, 2)
	rows := make([][]string, len(p.Rows))
	for i, d := range p.Rows {
		rows[i] = []string{
			d.ID, dateCell(d), d.Title,
			m.cat.Label("status", d.Status),
			m.cat.Label("office", d.Office),
			m.cat.Label("classification", d.Classification),
			m.cat.Label("type", d.Type),
		}
	}
	footer := fmt.Sprintf("Page %d/%d  %d of %d documents", p.Number, p.Pages, p.Total, len(m.docs))
	return m.renderTable(cols, rows, m.tables[viewDocuments].cursor, footer)
}

func dateCell(d model.Document) string {
	if d.Date.IsZero() {
		return ""
	}
	return d.Date.Format(filter.DateLayout)
}

func (m appModel) renderUsers() string {
	p := m.userPage()
	cols := layoutColumns(m.contentWidth(), []column{
		{"ID", 13}, {"Profile", 0}, {"Role", 14}, {"Status", 10}, {"Created", 10},
	}, 1)
	rows := make([][]string, len(p.Rows))
	for i, u := range p.Rows {
		rows[i] = []string{
			u.ID, u.Profile(),
			m.cat.Label("role", u.Role),
			m.cat.Label("user_status", u.Status),
			u.CreatedAt.Format(filter.DateLayout),
		}
	}
	footer := fmt.Sprintf("Page %d/%d  %d of %d users", p.Number, p.Pages, p.Total, len(m.users))
	return m.renderTable(cols, rows, m.tables[viewUsers].cursor, footer)
}

func (m appModel) renderReportForm() string {
	st := m.reportState
	var lines []string
	lines = append(lines, headerStyle.Render("Generate report"), "")
	for _, f := range st.Facets().Facets() {
		lines = append(lines, fmt.Sprintf("%-16s %s", f.Label, f.ValueLabel()))
	}
	lines = append(lines, fmt.Sprintf("%-16s %s", "Date Range", st.DateRange().Label()))
	format := "(select with o)"
	if f := st.OutputFormat(); f != "" {
		format = f.Label()
	}
	lines = append(lines, fmt.Sprintf("%-16s %s", "File Type", format))

	if _, err := report.Translate(st); err == nil {
		n := len(filter.Apply(st, m.docs))
		lines = append(lines, "", styleMuted().Render(fmt.Sprintf("%d documents match", n)))
	}
	if st.IsActive() {
		lines = append(lines, "", errorStyle.Render("[R] Reset"))
	}
	if m.lastReport != nil {
		lines = append(lines, "", "Last request: "+m.lastReport.ID+" ("+m.lastReport.State+")")
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderModal() string {
	switch m.modal {
	case modalFacets, modalOptions, modalActions, modalStatus:
		return modalStyle.Width(m.modalWidth()).Render(m.picker.View())
	case modalDates, modalRetitle:
		return modalStyle.Width(m.modalWidth()).Render(m.input.View())
	case modalConfirmDelete:
		body := fmt.Sprintf("Delete %s (%s)?\n\n", m.actionDoc.ID, m.actionDoc.Title)
		body += styleMuted().Render("y: delete   n/esc: cancel")
		return modalStyle.Width(m.modalWidth()).Render(body)
	case modalDetail:
		return m.renderDetail()
	}
	return ""
}

// renderDetail shows the document metadata and its markdown summary.
func (m appModel) renderDetail() string {
	if m.detail == nil {
		return ""
	}
	d := *m.detail
	w := m.contentWidth() - 4
	meta := []string{
		headerStyle.Render(d.Title),
		styleMuted().Render(d.ID + "  " + dateCell(d)),
		fmt.Sprintf("Status: %s   Office: %s   Classification: %s   Type: %s",
			m.cat.Label("status", d.Status), m.cat.Label("office", d.Office),
			m.cat.Label("classification", d.Classification), m.cat.Label("type", d.Type)),
	}
	if d.ReleasedAt != nil {
		meta = append(meta, "Released: "+d.ReleasedAt.Format(filter.DateLayout))
	}
	body := strings.TrimSpace(d.Summary)
	if body != "" {
		if out, err := docs.Render(body, w); err == nil {
			body = out
		}
	}
	return modalStyle.Width(m.contentWidth()).Render(strings.Join(meta, "\n") + "\n\n" + body)
}

func (m appModel) helpLine() string {
	switch m.modal {
	case modalSearch:
		return "type to search   enter: keep   esc: cancel"
	case modalDates:
		return "YYYY-MM-DD..YYYY-MM-DD (to optional, empty clears)   enter: apply   esc: cancel"
	case modalRetitle:
		return "enter: save   esc: cancel"
	case modalFacets, modalOptions, modalActions, modalStatus:
		return "↑/↓: move   enter: select   esc: back"
	case modalDetail:
		return "esc: close"
	}
	switch m.view {
	case viewReport:
		return "f: filter   d: dates   o: file type   g: generate   R: reset   tab: next view   q: quit"
	case viewUsers:
		return "/: search   f: filter   d: dates   y: copy id   ←/→: page   R: reset   tab: next view   q: quit"
	}
	return "/: search   f: filter   d: dates   enter: actions   v: view   y: copy id   ←/→: page   R: reset   tab: next view   q: quit"
}
