package filter

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and input layout for dates.
const DateLayout = "2006-01-02"

const displayLayout = "Jan 02, 2006"

// DateRange is an inclusive range of calendar days.
//
// The zero value is unset and matches every row. From without To is an explicit
// open-ended range (every day on or after From). To without From is invalid.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Day truncates t to its calendar day, expressed as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDateRange normalizes both ends to calendar days and validates the range.
func NewDateRange(from, to *time.Time) (DateRange, error) {
	var r DateRange
	if from != nil {
		d := Day(*from)
		r.From = &d
	}
	if to != nil {
		d := Day(*to)
		r.To = &d
	}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Since returns the open-ended range starting at from.
func Since(from time.Time) DateRange {
	d := Day(from)
	return DateRange{From: &d}
}

// Between returns [from, to]. It does not validate; use NewDateRange for untrusted input.
func Between(from, to time.Time) DateRange {
	f, t := Day(from), Day(to)
	return DateRange{From: &f, To: &t}
}

func (r DateRange) IsUnset() bool { return r.From == nil && r.To == nil }

func (r DateRange) Validate() error {
	if r.From == nil && r.To != nil {
		return errInvalidValue("dateRange", r.String())
	}
	if r.From != nil && r.To != nil && Day(*r.To).Before(Day(*r.From)) {
		return errInvalidValue("dateRange", r.String())
	}
	return nil
}

// Contains reports whether t's calendar day falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.IsUnset() {
		return true
	}
	if r.From == nil {
		return false
	}
	d := Day(t)
	if d.Before(Day(*r.From)) {
		return false
	}
	if r.To != nil && d.After(Day(*r.To)) {
		return false
	}
	return true
}

func (r DateRange) Equal(o DateRange) bool {
	return sameDay(r.From, o.From) && sameDay(r.To, o.To)
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Day(*a).Equal(Day(*b))
}

// Label renders the range the way the report form shows it.
func (r DateRange) Label() string {
	switch {
	case r.From == nil:
		return "All Dates"
	case r.To == nil:
		return "Since " + r.From.Format(displayLayout)
	case Day(*r.From).Equal(Day(*r.To)):
		return r.From.Format(displayLayout)
	default:
		return r.From.Format(displayLayout) + " - " + r.To.Format(displayLayout)
	}
}

// String renders the range in the input syntax accepted by ParseDateRange.
func (r DateRange) String() string {
	from, to := "", ""
	if r.From != nil {
		from = r.From.Format(DateLayout)
	}
	if r.To != nil {
		to = r.To.Format(DateLayout)
	}
	switch {
	case from == "" && to == "":
		return ""
	case to == "":
		return from + ".."
	default:
		return from + ".." + to
	}
}

// ParseDateRange accepts "", "2024-03-01" (that day onward), "2024-03-01.." and
// "2024-03-01..2024-03-31".
func ParseDateRange(s string) (DateRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DateRange{}, nil
	}
	fromStr, toStr, isRange := strings.Cut(s, "..")
	from, err := parseDay(fromStr)
	if err != nil {
		return DateRange{}, err
	}
	if !isRange || strings.TrimSpace(toStr) == "" {
		return NewDateRange(from, nil)
	}
	to, err := parseDay(toStr)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(from, to)
}

// ParseDateBounds builds a range from separate from/to inputs (web form fields, CLI flags).
func ParseDateBounds(from, to string) (DateRange, error) {
	var f, t *time.Time
	var err error
	if strings.TrimSpace(from) != "" {
		if f, err = parseDay(from); err != nil {
			return DateRange{}, err
		}
	}
	if strings.TrimSpace(to) != "" {
		if t, err = parseDay(to); err != nil {
			return DateRange{}, err
		}
	}
	return NewDateRange(f, t)
}

func parseDay(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q (expected YYYY-MM-DD)", ErrInvalidValue, s)
	}
	return &t, nil
}
