// Package format renders command output as json, edn or a terminal table.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	JSON  = "json"
	EDN   = "edn"
	Table = "table"
)

// Formats lists the accepted --format values.
func Formats() []string { return []string{JSON, EDN, Table} }

// Valid reports whether f is a known format ("" means json).
func Valid(f string) bool {
	switch strings.ToLower(strings.TrimSpace(f)) {
	case "", JSON, EDN, Table:
		return true
	}
	return false
}

// Write writes v in the requested format.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", JSON:
		return WriteJSON(w, v, pretty)
	case EDN:
		return WriteEDN(w, v, pretty)
	case Table:
		t, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("table output is not available here; use --format json")
		}
		return WriteTable(w, t)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON. Extra guidance for callers goes in `meta` or `_hints`,
// never in free text.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
