package filter

import (
	"fmt"
	"strings"
)

// Set is an ordered collection of facets with unique IDs.
//
// Set is a value: SetValue and ResetAll return a new Set and leave the receiver
// untouched, so a copy held elsewhere is a stable snapshot.
type Set struct {
	facets []Facet
}

// NewSet validates facets and returns them as a set with every value at its default.
func NewSet(facets ...Facet) (Set, error) {
	seen := make(map[string]bool, len(facets))
	out := make([]Facet, 0, len(facets))
	for _, f := range facets {
		f.ID = strings.TrimSpace(f.ID)
		if f.ID == "" {
			return Set{}, fmt.Errorf("facet: empty id")
		}
		if seen[f.ID] {
			return Set{}, fmt.Errorf("facet %s: duplicate id", f.ID)
		}
		seen[f.ID] = true
		if f.Kind == KindCategorical {
			if err := validateOptions(f); err != nil {
				return Set{}, err
			}
		}
		f.Value = f.Default
		out = append(out, f)
	}
	return Set{facets: out}, nil
}

func validateOptions(f Facet) error {
	values := make(map[string]bool, len(f.Options))
	for _, o := range f.Options {
		v := strings.TrimSpace(o.Value)
		if v == "" {
			return fmt.Errorf("facet %s: empty option value", f.ID)
		}
		if v == All {
			return fmt.Errorf("facet %s: option value %q is reserved", f.ID, All)
		}
		if values[v] {
			return fmt.Errorf("facet %s: duplicate option %q", f.ID, v)
		}
		values[v] = true
	}
	return nil
}

func (s Set) Len() int { return len(s.facets) }

// Facets returns the facets in order. The slice is a copy.
func (s Set) Facets() []Facet {
	out := make([]Facet, len(s.facets))
	copy(out, s.facets)
	return out
}

func (s Set) Facet(id string) (Facet, bool) {
	if i := s.index(id); i >= 0 {
		return s.facets[i], true
	}
	return Facet{}, false
}

func (s Set) index(id string) int {
	for i := range s.facets {
		if s.facets[i].ID == id {
			return i
		}
	}
	return -1
}

// SetValue returns a set with facet id set to v. The receiver is never modified, so on
// error the caller's set is unchanged.
func (s Set) SetValue(id string, v Value) (Set, error) {
	i := s.index(id)
	if i < 0 {
		return s, errUnknownFacet(id)
	}
	f := s.facets[i]
	v = f.normalize(v)
	if err := f.validate(v); err != nil {
		return s, err
	}
	if f.Value.Equal(v) {
		return s, nil
	}
	next := s.Facets()
	next[i].Value = v
	return Set{facets: next}, nil
}

// ResetAll returns the set with every facet at its default value.
func (s Set) ResetAll() Set {
	if !s.IsActive() {
		return s
	}
	next := s.Facets()
	for i := range next {
		next[i].Value = next[i].Default
	}
	return Set{facets: next}
}

// IsActive reports whether any facet differs from its default.
func (s Set) IsActive() bool {
	for _, f := range s.facets {
		if f.IsActive() {
			return true
		}
	}
	return false
}

// Active returns the facets that currently filter rows.
func (s Set) Active() []Facet {
	var out []Facet
	for _, f := range s.facets {
		if f.IsActive() {
			out = append(out, f)
		}
	}
	return out
}

// Selection returns the text value of facet id, or All when the set has no such facet.
func (s Set) Selection(id string) string {
	f, ok := s.Facet(id)
	if !ok || f.Kind != KindCategorical {
		return All
	}
	return f.Value.Text
}

func (s Set) Matches(row Row) bool {
	for _, f := range s.facets {
		if !f.matches(row) {
			return false
		}
	}
	return true
}
