// Package tui is the interactive terminal UI: filterable documents and users tables,
// the report form, and the row action menu.
package tui

import (
	"context"
	"errors"
	"os"

	"docdesk/internal/actions"
	"docdesk/internal/catalog"
	"docdesk/internal/filter"
	"docdesk/internal/mutate"
	"docdesk/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

var ErrNotATerminal = errors.New("not a terminal")

type Config struct {
	Store   store.Store
	Catalog *catalog.Catalog
	Applier mutate.Applier
	// Clipboard receives copied ids; nil reports every copy as unavailable.
	Clipboard actions.Clipboard
	// DefaultFormat preselects the report form's file type ("" leaves it empty).
	DefaultFormat filter.OutputFormat
	PageSize      int
}

func Run(ctx context.Context, cfg Config) error {
	if !term.IsTerminal(os.Stdin.Fd()) || !term.IsTerminal(os.Stdout.Fd()) {
		return ErrNotATerminal
	}
	applyThemePreference()
	applyColorProfilePreference()

	m, err := newAppModel(ctx, cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
