package filter

import (
	"strings"

	"docdesk/internal/model"
)

// All is the categorical "no filter" sentinel. Option providers never include it.
const All = "all"

type Kind int

const (
	KindCategorical Kind = iota
	KindFreeText
	KindDateRange
)

func (k Kind) String() string {
	switch k {
	case KindCategorical:
		return "categorical"
	case KindFreeText:
		return "text"
	case KindDateRange:
		return "dateRange"
	default:
		return "unknown"
	}
}

// Value is a facet selection. Categorical and free-text facets use Text,
// date-range facets use Range.
type Value struct {
	Text  string
	Range DateRange
}

func Text(s string) Value { return Value{Text: s} }

func Range(r DateRange) Value { return Value{Range: r} }

func (v Value) Equal(o Value) bool {
	return v.Text == o.Text && v.Range.Equal(o.Range)
}

// Facet is one named filter dimension.
type Facet struct {
	ID      string
	Label   string
	Kind    Kind
	Options []model.Option
	Value   Value
	Default Value
}

// Categorical builds a single-select facet over options, defaulting to All.
func Categorical(id, label string, options []model.Option) Facet {
	return Facet{
		ID:      id,
		Label:   label,
		Kind:    KindCategorical,
		Options: options,
		Value:   Text(All),
		Default: Text(All),
	}
}

// FreeText builds a substring facet over one row field.
func FreeText(id, label string) Facet {
	return Facet{ID: id, Label: label, Kind: KindFreeText}
}

// Dates builds a date-range facet over the row date.
func Dates(id, label string) Facet {
	return Facet{ID: id, Label: label, Kind: KindDateRange}
}

func (f Facet) IsActive() bool { return !f.Value.Equal(f.Default) }

// HasOption reports whether value is one of the facet's option values.
func (f Facet) HasOption(value string) bool {
	for _, o := range f.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// OptionLabel returns the label for value, "All" for the sentinel, or value itself.
func (f Facet) OptionLabel(value string) string {
	if value == All {
		return "All"
	}
	for _, o := range f.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// ValueLabel renders the current selection for toolbars and summaries.
func (f Facet) ValueLabel() string {
	switch f.Kind {
	case KindCategorical:
		return f.OptionLabel(f.Value.Text)
	case KindDateRange:
		return f.Value.Range.Label()
	default:
		return f.Value.Text
	}
}

// normalize maps UI-level spellings onto the canonical value: an empty categorical
// selection means All.
func (f Facet) normalize(v Value) Value {
	switch f.Kind {
	case KindCategorical:
		t := strings.TrimSpace(v.Text)
		if t == "" {
			t = All
		}
		return Text(t)
	case KindFreeText:
		return Text(v.Text)
	default:
		return Range(v.Range)
	}
}

func (f Facet) validate(v Value) error {
	switch f.Kind {
	case KindCategorical:
		if v.Text == f.Default.Text || f.HasOption(v.Text) {
			return nil
		}
		return errInvalidValue(f.ID, v.Text)
	case KindDateRange:
		if err := v.Range.Validate(); err != nil {
			return errInvalidValue(f.ID, v.Range.String())
		}
	}
	return nil
}

func (f Facet) matches(row Row) bool {
	if !f.IsActive() {
		return true
	}
	switch f.Kind {
	case KindCategorical:
		return row.Field(f.ID) == f.Value.Text
	case KindFreeText:
		return containsFold(row.Field(f.ID), f.Value.Text)
	case KindDateRange:
		d, ok := row.RowDate()
		return ok && f.Value.Range.Contains(d)
	default:
		return false
	}
}

func containsFold(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
