package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/x/ansi"
)

const maxCellWidth = 48

// Tabular is implemented by payloads that can print as a table.
type Tabular interface {
	TableHeader() []string
	TableRows() [][]string
	// TableFooter is an optional summary line ("" for none).
	TableFooter() string
}

// WriteTable prints t as aligned columns. Long cells are truncated with an ellipsis.
func WriteTable(w io.Writer, t Tabular) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := t.TableHeader()
	upper := make([]string, len(header))
	for i, h := range header {
		upper[i] = strings.ToUpper(h)
	}
	fmt.Fprintln(tw, strings.Join(upper, "\t"))
	for _, row := range t.TableRows() {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = ansi.Truncate(strings.ReplaceAll(c, "\t", " "), maxCellWidth, "…")
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if f := t.TableFooter(); f != "" {
		_, err := fmt.Fprintf(w, "\n%s\n", f)
		return err
	}
	return nil
}
