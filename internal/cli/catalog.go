package cli

import (
	"docdesk/internal/filter"

	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Show the option providers (offices, classifications, types, statuses, roles)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			source := "built-in"
			if app.CatalogPath != "" {
				source = app.CatalogPath
			} else if cfg, err := app.config(); err == nil && cfg.CatalogPath != "" {
				source = cfg.CatalogPath
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"offices":          c.Offices,
					"classifications":  c.Classifications,
					"types":            c.Types,
					"documentStatuses": c.DocumentStatuses,
					"userStatuses":     c.UserStatuses,
					"userRoles":        c.UserRoles,
					"outputFormats":    filter.OutputFormats(),
				},
				"meta": map[string]any{"source": source, "all": filter.All},
			})
		},
	}
}
