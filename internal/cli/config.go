package cli

import (
	"fmt"
	"strconv"
	"strings"

	"docdesk/internal/filter"
	"docdesk/internal/store"

	"github.com/spf13/cobra"
)

var configKeys = []string{"dataDir", "catalogPath", "defaultOutputFormat", "currentUser", "web.addr", "tui.pageSize"}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change ~/.docdesk/config.json",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.config()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, _ := store.ConfigPath()
			return writeOut(cmd, app, map[string]any{"data": cfg, "meta": map[string]any{"path": path}})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set one config key (empty value clears it)",
		Args:      cobra.ExactArgs(2),
		ValidArgs: configKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.config()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := setConfigKey(cfg, args[0], strings.TrimSpace(args[1])); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	})
	return cmd
}

func setConfigKey(cfg *store.GlobalConfig, key, value string) error {
	switch key {
	case "dataDir":
		cfg.DataDir = value
	case "catalogPath":
		cfg.CatalogPath = value
	case "defaultOutputFormat":
		f, err := filter.ParseOutputFormat(value)
		if err != nil {
			return err
		}
		cfg.DefaultOutputFormat = string(f)
	case "currentUser":
		cfg.CurrentUser = value
	case "web.addr":
		if cfg.Web == nil {
			cfg.Web = &store.WebConfig{}
		}
		cfg.Web.Addr = value
	case "tui.pageSize":
		n := 0
		if value != "" {
			var err error
			if n, err = strconv.Atoi(value); err != nil || n < 0 {
				return fmt.Errorf("tui.pageSize: expected a positive number, got %q", value)
			}
		}
		if cfg.TUI == nil {
			cfg.TUI = &store.TUIConfig{}
		}
		cfg.TUI.PageSize = n
	default:
		return fmt.Errorf("unknown config key: %s (expected one of %s)", key, strings.Join(configKeys, ", "))
	}
	return nil
}
