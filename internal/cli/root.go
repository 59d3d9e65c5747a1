package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"docdesk/internal/actions"
	"docdesk/internal/catalog"
	"docdesk/internal/format"
	"docdesk/internal/logging"
	"docdesk/internal/model"
	"docdesk/internal/mutate"
	"docdesk/internal/perm"
	"docdesk/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	Dir         string
	CatalogPath string
	User        string
	PrettyJSON  bool
	Format      string
	LogLevel    string

	cfg *store.GlobalConfig
	cat *catalog.Catalog
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "docdesk",
		Short:        "Document records desk: filterable tables, row actions and report requests",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  docdesk

  # Create the data directory with sample documents and users
  docdesk init --sample

  # Filter documents
  docdesk documents list --office records --from 2024-03-01 --search budget

  # Queue a report
  docdesk reports generate --classification confidential --output csv
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !format.Valid(app.Format) {
			return writeErr(cmd, fmt.Errorf("unknown format: %s (expected one of %s)", app.Format, strings.Join(format.Formats(), "|")))
		}
		level, err := logging.ParseLevel(app.LogLevel)
		if err != nil {
			return writeErr(cmd, err)
		}
		// Logs go to a file so they never mix with command output or the TUI.
		if dir, err := resolveDir(app); err == nil {
			if _, err := logging.InitFile(store.Store{Dir: dir}.LogPath(), level); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "logging disabled: %v\n", err)
			}
		}
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return logging.Close()
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("DOCDESK_DIR", ""), "Data directory (default: dataDir from config, else ~/.docdesk/data)")
	cmd.PersistentFlags().StringVar(&app.CatalogPath, "catalog", envOr("DOCDESK_CATALOG", ""), "Option catalog TOML file (default: built-in)")
	cmd.PersistentFlags().StringVar(&app.User, "user", envOr("DOCDESK_USER", ""), "Acting user id or email (default: currentUser from config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DOCDESK_FORMAT", "json"), "Output format (json|edn|table)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("DOCDESK_LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newDocumentsCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newReportsCmd(app))
	cmd.AddCommand(newCatalogCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newWebCmd(app))

	return cmd
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func (app *App) config() (*store.GlobalConfig, error) {
	if app.cfg != nil {
		return app.cfg, nil
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	app.cfg = cfg
	return cfg, nil
}

func resolveDir(app *App) (string, error) {
	if app.Dir != "" {
		return store.ResolveDir(app.Dir)
	}
	dir, err := store.ResolveDir("")
	if err != nil {
		return "", err
	}
	app.Dir = dir
	return dir, nil
}

// openStore resolves the data directory and requires an initialized database.
func openStore(app *App) (store.Store, error) {
	dir, err := resolveDir(app)
	if err != nil {
		return store.Store{}, err
	}
	s := store.Store{Dir: dir}
	if !s.Exists() {
		return s, fmt.Errorf("no data in %s (run `docdesk init` or `docdesk init --sample`)", dir)
	}
	return s, nil
}

func loadCatalog(app *App) (*catalog.Catalog, error) {
	if app.cat != nil {
		return app.cat, nil
	}
	path := app.CatalogPath
	if path == "" {
		if cfg, err := app.config(); err == nil {
			path = cfg.CatalogPath
		}
	}
	c, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	app.cat = c
	return c, nil
}

// currentUser resolves --user, then currentUser from config. nil means the
// unrestricted local operator.
func currentUser(ctx context.Context, app *App, s store.Store) (*model.User, error) {
	key := strings.TrimSpace(app.User)
	if key == "" {
		if cfg, err := app.config(); err == nil {
			key = strings.TrimSpace(cfg.CurrentUser)
		}
	}
	if key == "" {
		return nil, nil
	}
	u, err := s.GetUser(ctx, key)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// applier wires the dispatcher's collaborators for one command.
func applier(ctx context.Context, app *App, s store.Store, c *catalog.Catalog) (mutate.Applier, error) {
	actor, err := currentUser(ctx, app, s)
	if err != nil {
		return mutate.Applier{}, err
	}
	return mutate.Applier{Store: s, Statuses: c.DocumentStatuses, Actor: actor}, nil
}

func newDispatcher(c *catalog.Catalog, clip actions.Clipboard, actor *model.User) *actions.Dispatcher {
	return actions.NewDispatcher(c.DocumentStatuses, clip,
		actions.WithGate(func(k actions.Kind) error { return perm.Check(actor, k) }),
		actions.WithExecutor(func(fn func()) { fn() }),
		actions.WithLogger(logging.With("component", "cli")),
	)
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	if strings.EqualFold(strings.TrimSpace(app.Format), format.Table) {
		if m, ok := v.(map[string]any); ok {
			if t, ok := m["data"].(format.Tabular); ok {
				return format.WriteTable(cmd.OutOrStdout(), t)
			}
		}
	}
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	for _, h := range hintsFor(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), "hint: "+h)
	}
	return err
}
