package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// pickItem is one row of a modal picker.
type pickItem struct {
	value string
	label string
	// note is rendered muted after the label ("current", the facet's selection).
	note string
}

func (i pickItem) FilterValue() string { return i.label }

func (i pickItem) Title() string {
	if i.note == "" {
		return i.label
	}
	return i.label + "  " + styleMuted().Render(i.note)
}

type compactItemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCompactItemDelegate() compactItemDelegate {
	return compactItemDelegate{
		normal:   lipgloss.NewStyle(),
		selected: selectedStyle,
	}
}

func (d compactItemDelegate) Height() int                           { return 1 }
func (d compactItemDelegate) Spacing() int                          { return 0 }
func (d compactItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d compactItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	style := d.normal
	prefix := "  "
	if index == m.Index() {
		style = d.selected
		prefix = "> "
	}
	txt := fmt.Sprint(item)
	if t, ok := item.(interface{ Title() string }); ok {
		txt = t.Title()
	}
	line := prefix + txt
	if lw := xansi.StringWidth(line); lw < contentW {
		line += strings.Repeat(" ", contentW-lw)
	} else if lw > contentW {
		line = xansi.Truncate(line, contentW, "…")
	}
	fmt.Fprint(w, style.Render(line))
}

// newPicker builds a chrome-free list for modals. ESC and q are handled by the model,
// so the list's own quit bindings are off.
func newPicker(title string, items []pickItem, selected int) list.Model {
	li := make([]list.Item, len(items))
	for i, it := range items {
		li[i] = it
	}
	l := list.New(li, newCompactItemDelegate(), 40, len(items)+2)
	l.Title = title
	l.Styles.Title = headerStyle
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.KeyMap.CursorUp.SetKeys(append(l.KeyMap.CursorUp.Keys(), "ctrl+p")...)
	l.KeyMap.CursorDown.SetKeys(append(l.KeyMap.CursorDown.Keys(), "ctrl+n")...)
	if selected >= 0 && selected < len(items) {
		l.Select(selected)
	}
	return l
}

func selectedPick(l list.Model) (pickItem, bool) {
	it, ok := l.SelectedItem().(pickItem)
	return it, ok
}
