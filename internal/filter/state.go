package filter

import (
	"strings"
	"time"

	"docdesk/internal/model"
)

// Row is what the predicate needs from a table row.
type Row interface {
	// Field returns the row's value for a facet column.
	Field(name string) string
	// SearchText is the designated searchable text.
	SearchText() string
	// RowDate is the designated date; ok is false when the row has none.
	RowDate() (t time.Time, ok bool)
}

type OutputFormat string

const (
	FormatPDF   OutputFormat = "pdf"
	FormatExcel OutputFormat = "excel"
	FormatCSV   OutputFormat = "csv"
)

var outputFormats = []model.Option{
	{Value: string(FormatPDF), Label: "PDF Document"},
	{Value: string(FormatExcel), Label: "Excel Spreadsheet"},
	{Value: string(FormatCSV), Label: "CSV File"},
}

// OutputFormats lists the report file types in display order.
func OutputFormats() []model.Option {
	out := make([]model.Option, len(outputFormats))
	copy(out, outputFormats)
	return out
}

// ParseOutputFormat accepts a format value; "" yields the absent format.
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" || f.Valid() {
		return f, nil
	}
	return "", errInvalidValue("outputFormat", s)
}

func (f OutputFormat) Valid() bool {
	switch f {
	case FormatPDF, FormatExcel, FormatCSV:
		return true
	}
	return false
}

func (f OutputFormat) Label() string {
	for _, o := range outputFormats {
		if o.Value == string(f) {
			return o.Label
		}
	}
	return ""
}

// State is one coherent query: facet selections, search term, date range and the
// report output format.
//
// State is a value and every Apply method returns a new State, so readers never see a
// half-applied change and a copy taken at submit time is a snapshot.
type State struct {
	facets    Set
	search    string
	dateRange DateRange
	format    OutputFormat
}

func NewState(facets Set) State {
	return State{facets: facets}
}

func (s State) Facets() Set                { return s.facets }
func (s State) SearchTerm() string         { return s.search }
func (s State) DateRange() DateRange       { return s.dateRange }
func (s State) OutputFormat() OutputFormat { return s.format }

func (s State) ApplyFacetChange(id string, v Value) (State, error) {
	next, err := s.facets.SetValue(id, v)
	if err != nil {
		return s, err
	}
	s.facets = next
	return s, nil
}

func (s State) ApplySearchTerm(term string) State {
	s.search = term
	return s
}

func (s State) ApplyDateRange(r DateRange) (State, error) {
	if err := r.Validate(); err != nil {
		return s, err
	}
	r, _ = NewDateRange(r.From, r.To)
	s.dateRange = r
	return s, nil
}

func (s State) ApplyOutputFormat(f OutputFormat) (State, error) {
	if f != "" && !f.Valid() {
		return s, errInvalidValue("outputFormat", string(f))
	}
	s.format = f
	return s, nil
}

// ResetAll clears every facet, the search term and the date range. The output format
// is a report setting, not a filter, and is kept.
func (s State) ResetAll() State {
	s.facets = s.facets.ResetAll()
	s.search = ""
	s.dateRange = DateRange{}
	return s
}

// Search is the effective search term.
func (s State) Search() string { return strings.TrimSpace(s.search) }

// IsActive drives the reset affordance: any facet, search term or date range set.
func (s State) IsActive() bool {
	return s.facets.IsActive() || s.Search() != "" || !s.dateRange.IsUnset()
}

// Matches is the single row predicate shared by tables, listings and reports.
func (s State) Matches(row Row) bool {
	if !s.facets.Matches(row) {
		return false
	}
	if !containsFold(row.SearchText(), s.search) {
		return false
	}
	if !s.dateRange.IsUnset() {
		d, ok := row.RowDate()
		if !ok || !s.dateRange.Contains(d) {
			return false
		}
	}
	return true
}

// Apply returns the rows s matches, in input order.
func Apply[R Row](s State, rows []R) []R {
	out := make([]R, 0, len(rows))
	for _, r := range rows {
		if s.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Summary renders the active filters as "Label: value" pairs.
func (s State) Summary() []string {
	var out []string
	for _, f := range s.facets.Active() {
		out = append(out, f.Label+": "+f.ValueLabel())
	}
	if q := s.Search(); q != "" {
		out = append(out, "Search: "+q)
	}
	if !s.dateRange.IsUnset() {
		out = append(out, "Date: "+s.dateRange.Label())
	}
	return out
}
