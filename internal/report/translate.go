package report

import (
	"context"
	"errors"

	"docdesk/internal/filter"
)

var ErrMissingOutputFormat = errors.New("missing output format")

// Translate projects a query state into a report request. It performs no I/O and fails
// only when the state has no output format.
func Translate(s filter.State) (Request, error) {
	if s.OutputFormat() == "" {
		return Request{}, ErrMissingOutputFormat
	}
	facets := s.Facets()
	req := Request{
		Offices:        Selection(facets.Selection(FacetOffice)),
		Classification: Selection(facets.Selection(FacetClassification)),
		Type:           Selection(facets.Selection(FacetType)),
		DateRange:      spanOf(s.DateRange()),
		OutputFormat:   s.OutputFormat(),
		Search:         s.Search(),
	}
	for _, f := range facets.Active() {
		switch f.ID {
		case FacetOffice, FacetClassification, FacetType:
			if f.Kind == filter.KindCategorical {
				continue
			}
		}
		switch f.Kind {
		case filter.KindCategorical:
			if req.Filters == nil {
				req.Filters = map[string]string{}
			}
			req.Filters[f.ID] = f.Value.Text
		case filter.KindFreeText:
			if req.Text == nil {
				req.Text = map[string]string{}
			}
			req.Text[f.ID] = f.Value.Text
		case filter.KindDateRange:
			if req.Dates == nil {
				req.Dates = map[string]DateSpan{}
			}
			req.Dates[f.ID] = *spanOf(f.Value.Range)
		}
	}
	return req, nil
}

// Submitter hands a request to whatever generates the report.
type Submitter interface {
	Submit(ctx context.Context, req Request) (Record, error)
}

// Submit translates s and submits the result. The request is built from s as passed,
// so later changes to the caller's state never reach a submitted request.
func Submit(ctx context.Context, sub Submitter, s filter.State) (Record, error) {
	req, err := Translate(s)
	if err != nil {
		return Record{}, err
	}
	return sub.Submit(ctx, req)
}
