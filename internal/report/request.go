package report

import (
	"encoding/json"
	"strings"
	"time"

	"docdesk/internal/filter"
)

// Facet ids the report form is built from.
const (
	FacetOffice         = "office"
	FacetClassification = "classification"
	FacetType           = "type"
)

// Selection is filter.All or one concrete option value.
type Selection string

func (s Selection) IsAll() bool { return s == "" || s == filter.All }

func (s Selection) matches(v string) bool { return s.IsAll() || string(s) == v }

// DateSpan is the wire form of a set date range. To is nil for an open-ended range.
type DateSpan struct {
	From string  `json:"from"`
	To   *string `json:"to"`
}

func spanOf(r filter.DateRange) *DateSpan {
	if r.IsUnset() {
		return nil
	}
	sp := &DateSpan{From: r.From.Format(filter.DateLayout)}
	if r.To != nil {
		to := r.To.Format(filter.DateLayout)
		sp.To = &to
	}
	return sp
}

// Range converts the span back to a filter range.
func (sp *DateSpan) Range() (filter.DateRange, error) {
	if sp == nil {
		return filter.DateRange{}, nil
	}
	to := ""
	if sp.To != nil {
		to = *sp.To
	}
	return filter.ParseDateBounds(sp.From, to)
}

// Request is the report-generation payload.
//
// Offices, Classification and Type are the report form's facets. Any other active facet
// of the translated state lands in Filters (categorical), Text (free text) or Dates
// (date range), so the request never admits a row the state excludes.
type Request struct {
	Offices        Selection           `json:"offices"`
	Classification Selection           `json:"classification"`
	Type           Selection           `json:"type"`
	DateRange      *DateSpan           `json:"dateRange"`
	OutputFormat   filter.OutputFormat `json:"outputFormat"`
	Search         string              `json:"search,omitempty"`
	Filters        map[string]string   `json:"filters,omitempty"`
	Text           map[string]string   `json:"text,omitempty"`
	Dates          map[string]DateSpan `json:"dates,omitempty"`
}

// Matches reports whether row satisfies every constraint the request encodes.
func (r Request) Matches(row filter.Row) bool {
	if !r.Offices.matches(row.Field(FacetOffice)) ||
		!r.Classification.matches(row.Field(FacetClassification)) ||
		!r.Type.matches(row.Field(FacetType)) {
		return false
	}
	for id, v := range r.Filters {
		if row.Field(id) != v {
			return false
		}
	}
	for id, v := range r.Text {
		if !containsFold(row.Field(id), v) {
			return false
		}
	}
	if !containsFold(row.SearchText(), r.Search) {
		return false
	}
	if !spanContains(r.DateRange, row) {
		return false
	}
	for _, sp := range r.Dates {
		if !spanContains(&sp, row) {
			return false
		}
	}
	return true
}

func spanContains(sp *DateSpan, row filter.Row) bool {
	if sp == nil {
		return true
	}
	rng, err := sp.Range()
	if err != nil {
		return false
	}
	d, ok := row.RowDate()
	return ok && rng.Contains(d)
}

func containsFold(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	return needle == "" || strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Params flattens the request into string key/value pairs for transports that only
// carry flat parameters (query strings, form posts). Absent dates are omitted.
func (r Request) Params() map[string]string {
	out := map[string]string{
		"offices":        string(orAll(r.Offices)),
		"classification": string(orAll(r.Classification)),
		"type":           string(orAll(r.Type)),
		"outputFormat":   string(r.OutputFormat),
	}
	if r.DateRange != nil {
		out["from"] = r.DateRange.From
		if r.DateRange.To != nil {
			out["to"] = *r.DateRange.To
		}
	}
	if r.Search != "" {
		out["search"] = r.Search
	}
	for id, v := range r.Filters {
		out["filters."+id] = v
	}
	for id, v := range r.Text {
		out["text."+id] = v
	}
	for id, sp := range r.Dates {
		v := sp.From + ".."
		if sp.To != nil {
			v += *sp.To
		}
		out["dates."+id] = v
	}
	return out
}

func orAll(s Selection) Selection {
	if s.IsAll() {
		return filter.All
	}
	return s
}

// JSON returns the canonical JSON encoding.
func (r Request) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// Record is a request accepted by a Submitter.
type Record struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submittedAt"`
	State       string    `json:"state"`
	Request     Request   `json:"request"`
}
