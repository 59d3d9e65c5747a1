// Package catalog loads the option providers (offices, classifications, types, status
// enumerations, roles) and builds the facet sets each table filters on.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"docdesk/internal/filter"
	"docdesk/internal/model"
	"docdesk/internal/report"
	"docdesk/internal/statusutil"

	"github.com/BurntSushi/toml"
)

//go:embed default.toml
var defaultTOML string

type Catalog struct {
	Offices          []model.Option    `toml:"offices" json:"offices"`
	Classifications  []model.Option    `toml:"classifications" json:"classifications"`
	Types            []model.Option    `toml:"types" json:"types"`
	DocumentStatuses []model.StatusDef `toml:"document_statuses" json:"documentStatuses"`
	UserStatuses     []model.Option    `toml:"user_statuses" json:"userStatuses"`
	UserRoles        []model.Option    `toml:"user_roles" json:"userRoles"`
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultTOML)
}

// Load reads a catalog file; an empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default()
	}
	var c Catalog
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return &c, nil
}

func Parse(src string) (*Catalog, error) {
	var c Catalog
	if _, err := toml.Decode(src, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every provider: non-empty unique values, none equal to "all".
func (c *Catalog) Validate() error {
	lists := []struct {
		name string
		opts []model.Option
	}{
		{"offices", c.Offices},
		{"classifications", c.Classifications},
		{"types", c.Types},
		{"document_statuses", statusutil.Options(c.DocumentStatuses)},
		{"user_statuses", c.UserStatuses},
		{"user_roles", c.UserRoles},
	}
	for _, l := range lists {
		if err := validateOptions(l.opts); err != nil {
			return fmt.Errorf("%s: %w", l.name, err)
		}
	}
	if len(c.DocumentStatuses) == 0 {
		return errors.New("document_statuses: empty")
	}
	return nil
}

func validateOptions(opts []model.Option) error {
	seen := map[string]bool{}
	for _, o := range opts {
		v := strings.TrimSpace(o.Value)
		switch {
		case v == "":
			return errors.New("empty value")
		case v == filter.All:
			return fmt.Errorf("value %q is reserved", filter.All)
		case seen[v]:
			return fmt.Errorf("duplicate value %q", v)
		}
		seen[v] = true
	}
	return nil
}

// ReportFacets is the report form: offices, classification and type.
func (c *Catalog) ReportFacets() (filter.Set, error) {
	return filter.NewSet(
		filter.Categorical(report.FacetOffice, "Offices", c.Offices),
		filter.Categorical(report.FacetClassification, "Classification", c.Classifications),
		filter.Categorical(report.FacetType, "Type", c.Types),
	)
}

// DocumentFacets is the documents table toolbar: the report facets plus status.
func (c *Catalog) DocumentFacets() (filter.Set, error) {
	return filter.NewSet(
		filter.Categorical("status", "Status", statusutil.Options(c.DocumentStatuses)),
		filter.Categorical(report.FacetOffice, "Offices", c.Offices),
		filter.Categorical(report.FacetClassification, "Classification", c.Classifications),
		filter.Categorical(report.FacetType, "Type", c.Types),
	)
}

// UserFacets is the users table toolbar.
func (c *Catalog) UserFacets() (filter.Set, error) {
	return filter.NewSet(
		filter.Categorical("status", "Status", c.UserStatuses),
		filter.Categorical("role", "Role", c.UserRoles),
	)
}

func (c *Catalog) DocumentState() (filter.State, error) {
	set, err := c.DocumentFacets()
	if err != nil {
		return filter.State{}, err
	}
	return filter.NewState(set), nil
}

// ReportState builds the report form state with format preselected ("" leaves it absent).
func (c *Catalog) ReportState(format filter.OutputFormat) (filter.State, error) {
	set, err := c.ReportFacets()
	if err != nil {
		return filter.State{}, err
	}
	return filter.NewState(set).ApplyOutputFormat(format)
}

func (c *Catalog) UserState() (filter.State, error) {
	set, err := c.UserFacets()
	if err != nil {
		return filter.State{}, err
	}
	return filter.NewState(set), nil
}

// Label looks up the label of value in the named provider.
func (c *Catalog) Label(provider, value string) string {
	var opts []model.Option
	switch provider {
	case "office", "offices":
		opts = c.Offices
	case "classification", "classifications":
		opts = c.Classifications
	case "type", "types":
		opts = c.Types
	case "status", "document_statuses":
		return statusutil.Label(c.DocumentStatuses, value)
	case "user_status", "user_statuses":
		opts = c.UserStatuses
	case "role", "user_roles":
		opts = c.UserRoles
	}
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
