package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

type GlobalConfig struct {
	// DataDir overrides ~/.docdesk/data.
	DataDir string `json:"dataDir,omitempty"`

	// CatalogPath points at a TOML option catalog; empty uses the built-in one.
	CatalogPath string `json:"catalogPath,omitempty"`

	// DefaultOutputFormat preselects the report form's file type (pdf, excel, csv).
	DefaultOutputFormat string `json:"defaultOutputFormat,omitempty"`

	// CurrentUser is the id or email of the user acting from this machine. Empty means
	// an unrestricted local operator.
	CurrentUser string `json:"currentUser,omitempty"`

	Web *WebConfig `json:"web,omitempty"`
	TUI *TUIConfig `json:"tui,omitempty"`
}

type WebConfig struct {
	Addr string `json:"addr,omitempty"`
}

type TUIConfig struct {
	PageSize int `json:"pageSize,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.docdesk).
	if v := strings.TrimSpace(os.Getenv("DOCDESK_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".docdesk"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig returns an empty config when the file does not exist.
func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Temp file + rename: the CLI, TUI and web server may save concurrently.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

func (c *GlobalConfig) WebAddr() string {
	if c == nil || c.Web == nil || strings.TrimSpace(c.Web.Addr) == "" {
		return "127.0.0.1:7780"
	}
	return strings.TrimSpace(c.Web.Addr)
}

func (c *GlobalConfig) PageSize() int {
	if c == nil || c.TUI == nil || c.TUI.PageSize <= 0 {
		return 0
	}
	return c.TUI.PageSize
}
