package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	sqliteFileName = "docdesk.sqlite"
	logFileName    = "docdesk.log"
)

// ErrNotFound is matched by every lookup miss (errors.Is).
var ErrNotFound = errors.New("not found")

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Store is a data directory holding the sqlite database and the log file.
type Store struct {
	Dir string
}

// ResolveDir picks the data directory: explicit flag/env value, then the config file,
// then ~/.docdesk/data.
func ResolveDir(explicit string) (string, error) {
	if v := strings.TrimSpace(explicit); v != "" {
		return filepath.Abs(v)
	}
	cfg, err := LoadConfig()
	if err == nil && strings.TrimSpace(cfg.DataDir) != "" {
		return filepath.Abs(strings.TrimSpace(cfg.DataDir))
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store: empty data dir")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) SQLitePath() string { return filepath.Join(s.Dir, sqliteFileName) }

func (s Store) LogPath() string { return filepath.Join(s.Dir, logFileName) }

// Exists reports whether the database file has been created.
func (s Store) Exists() bool {
	_, err := os.Stat(s.SQLitePath())
	return err == nil
}

func unixMS(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromUnixMS(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
