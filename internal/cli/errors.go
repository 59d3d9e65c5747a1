package cli

import (
	"errors"

	"docdesk/internal/actions"
	"docdesk/internal/filter"
	"docdesk/internal/mutate"
	"docdesk/internal/perm"
	"docdesk/internal/report"
	"docdesk/internal/store"
)

// hintsFor suggests a next step for errors a user can fix.
func hintsFor(err error) []string {
	var denied perm.DeniedError
	var fe *filter.FacetError
	switch {
	case errors.As(err, &fe) && errors.Is(err, filter.ErrUnknownFacet):
		return []string{"facets for this table are listed by `docdesk catalog`"}
	case errors.As(err, &fe) && fe.FacetID == "outputFormat":
		return []string{"--output takes pdf, excel or csv"}
	case errors.As(err, &fe):
		return []string{"run `docdesk catalog` to list the values " + fe.FacetID + " accepts"}
	case errors.Is(err, report.ErrMissingOutputFormat):
		return []string{"pass --output pdf|excel|csv, or set defaultOutputFormat with `docdesk config set defaultOutputFormat pdf`"}
	case errors.Is(err, mutate.ErrInvalidStatus):
		return []string{"run `docdesk catalog` to list document statuses"}
	case errors.As(err, &denied):
		return []string{"ask an admin to change your role, or act as another user with --user"}
	case errors.Is(err, actions.ErrClipboardUnavailable):
		return []string{"the id is printed in the output; copy it from there"}
	case errors.Is(err, store.ErrNotFound):
		return []string{"run `docdesk documents list` to see ids"}
	}
	return nil
}
