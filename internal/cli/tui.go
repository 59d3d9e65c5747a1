package cli

import (
	"errors"

	"docdesk/internal/filter"
	"docdesk/internal/tui"

	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	c, err := loadCatalog(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	s, err := openStore(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	a, err := applier(ctx, app, s, c)
	if err != nil {
		return writeErr(cmd, err)
	}
	cfg, err := app.config()
	if err != nil {
		return writeErr(cmd, err)
	}
	defFormat, err := filter.ParseOutputFormat(cfg.DefaultOutputFormat)
	if err != nil {
		return writeErr(cmd, err)
	}
	err = tui.Run(ctx, tui.Config{
		Store:         s,
		Catalog:       c,
		Applier:       a,
		Clipboard:     clipboardFor(),
		DefaultFormat: defFormat,
		PageSize:      cfg.PageSize(),
	})
	if errors.Is(err, tui.ErrNotATerminal) {
		return writeErr(cmd, errors.New("the TUI needs a terminal; use a subcommand (see `docdesk --help`)"))
	}
	return err
}
