package cli

import (
	"time"

	"docdesk/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var sample, remember bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the data directory and database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s := store.Store{Dir: dir}
			if err := s.Init(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			seeded := 0
			if sample {
				c, err := loadCatalog(app)
				if err != nil {
					return writeErr(cmd, err)
				}
				if err := s.Seed(cmd.Context(), c, time.Now().UTC()); err != nil {
					return writeErr(cmd, err)
				}
				seeded = len(store.SampleDocuments(c, time.Now()))
			}
			if remember {
				cfg, err := app.config()
				if err != nil {
					return writeErr(cmd, err)
				}
				cfg.DataDir = dir
				if err := store.SaveConfig(cfg); err != nil {
					return writeErr(cmd, err)
				}
			}
			hints := []string{"run `docdesk` for the TUI or `docdesk web` for the browser UI"}
			if !sample {
				hints = append(hints, "add sample data with `docdesk init --sample`")
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":             dir,
					"sqlitePath":      s.SQLitePath(),
					"sampleDocuments": seeded,
				},
				"_hints": hints,
			})
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "Seed sample documents and users")
	cmd.Flags().BoolVar(&remember, "remember", false, "Save this directory as dataDir in the config file")
	return cmd
}
