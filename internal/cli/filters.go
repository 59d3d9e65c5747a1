package cli

import (
	"strings"

	"docdesk/internal/catalog"
	"docdesk/internal/filter"

	"github.com/spf13/cobra"
)

// filterFlags binds one string flag per facet plus search and date flags.
type filterFlags struct {
	facets []string
	values map[string]*string
	search string
	from   string
	to     string
	dates  string
}

// facetBuilder picks one of the catalog's facet sets.
type facetBuilder func(*catalog.Catalog) (filter.Set, error)

// addFilterFlags registers flags for the facets build returns. Facet ids are fixed, so
// the built-in catalog names the flags; completion reads the catalog in effect.
func addFilterFlags(cmd *cobra.Command, app *App, build facetBuilder, withDates bool) *filterFlags {
	ff := &filterFlags{values: map[string]*string{}}
	var facets []filter.Facet
	if def, err := catalog.Default(); err == nil {
		if set, err := build(def); err == nil {
			facets = set.Facets()
		}
	}
	for _, f := range facets {
		id := f.ID
		v := new(string)
		ff.facets = append(ff.facets, id)
		ff.values[id] = v
		cmd.Flags().StringVar(v, id, "", "Filter by "+strings.ToLower(f.Label)+" (value or label; all = no filter)")
		_ = cmd.RegisterFlagCompletionFunc(id, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			c, err := loadCatalog(app)
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			set, err := build(c)
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			cur, _ := set.Facet(id)
			return append([]string{filter.All}, optionValues(cur)...), cobra.ShellCompDirectiveNoFileComp
		})
	}
	cmd.Flags().StringVar(&ff.search, "search", "", "Case-insensitive substring search")
	if withDates {
		cmd.Flags().StringVar(&ff.from, "from", "", "First day (YYYY-MM-DD)")
		cmd.Flags().StringVar(&ff.to, "to", "", "Last day (YYYY-MM-DD); requires --from")
		cmd.Flags().StringVar(&ff.dates, "dates", "", "Date range: YYYY-MM-DD, YYYY-MM-DD.. or YYYY-MM-DD..YYYY-MM-DD")
	}
	return ff
}

func optionValues(f filter.Facet) []string {
	out := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		out = append(out, o.Value)
	}
	return out
}

// resolveOption maps user input onto an option value, accepting labels and any case.
// Unknown input is returned as typed so validation rejects it with the facet error.
func resolveOption(f filter.Facet, in string) string {
	in = strings.TrimSpace(in)
	if strings.EqualFold(in, filter.All) {
		return filter.All
	}
	for _, o := range f.Options {
		if o.Value == in {
			return o.Value
		}
	}
	for _, o := range f.Options {
		if strings.EqualFold(o.Value, in) || strings.EqualFold(o.Label, in) {
			return o.Value
		}
	}
	return in
}

// apply folds the flags into s. Any rejected value leaves nothing applied.
func (ff *filterFlags) apply(cmd *cobra.Command, s filter.State) (filter.State, error) {
	next := s
	for _, id := range ff.facets {
		if !cmd.Flags().Changed(id) {
			continue
		}
		f, _ := next.Facets().Facet(id)
		var err error
		next, err = next.ApplyFacetChange(id, filter.Text(resolveOption(f, *ff.values[id])))
		if err != nil {
			return s, err
		}
	}
	if ff.search != "" {
		next = next.ApplySearchTerm(ff.search)
	}
	var (
		r   filter.DateRange
		err error
	)
	switch {
	case ff.dates != "":
		r, err = filter.ParseDateRange(ff.dates)
	case ff.from != "" || ff.to != "":
		r, err = filter.ParseDateBounds(ff.from, ff.to)
	}
	if err != nil {
		return s, err
	}
	next, err = next.ApplyDateRange(r)
	if err != nil {
		return s, err
	}
	return next, nil
}

func filterMeta(s filter.State) map[string]any {
	return map[string]any{
		"active":  s.IsActive(),
		"summary": nonNil(s.Summary()),
	}
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
