package filter

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFacet = errors.New("unknown facet")
	ErrInvalidValue = errors.New("invalid value")
)

// FacetError reports a rejected facet mutation. Err is ErrUnknownFacet or ErrInvalidValue.
type FacetError struct {
	Err     error
	FacetID string
	Value   string
}

func (e *FacetError) Error() string {
	if errors.Is(e.Err, ErrUnknownFacet) {
		return fmt.Sprintf("unknown facet: %s", e.FacetID)
	}
	return fmt.Sprintf("invalid value for %s: %q", e.FacetID, e.Value)
}

func (e *FacetError) Unwrap() error { return e.Err }

func errUnknownFacet(id string) error {
	return &FacetError{Err: ErrUnknownFacet, FacetID: id}
}

func errInvalidValue(id, value string) error {
	return &FacetError{Err: ErrInvalidValue, FacetID: id, Value: value}
}
