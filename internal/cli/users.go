package cli

import (
	"errors"
	"fmt"
	"strings"

	"docdesk/internal/catalog"
	"docdesk/internal/filter"
	"docdesk/internal/idgen"
	"docdesk/internal/model"

	"github.com/spf13/cobra"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List and add users",
	}
	cmd.AddCommand(newUsersListCmd(app))
	cmd.AddCommand(newUsersAddCmd(app))
	return cmd
}

type userPage struct {
	filter.Page[model.User]
	cat *catalog.Catalog
}

func (p userPage) MarshalJSON() ([]byte, error) { return jsonOf(p.Rows) }

func (p userPage) TableHeader() []string {
	return []string{"id", "profile", "role", "status", "created"}
}

func (p userPage) TableRows() [][]string {
	out := make([][]string, 0, len(p.Rows))
	for _, u := range p.Rows {
		out = append(out, []string{
			u.ID, u.Profile(),
			p.cat.Label("role", u.Role),
			p.cat.Label("user_status", u.Status),
			u.CreatedAt.Format(filter.DateLayout),
		})
	}
	return out
}

func (p userPage) TableFooter() string {
	return fmt.Sprintf("page %d of %d, %d of %d users", p.Number, p.Pages, len(p.Rows), p.Total)
}

func newUsersListCmd(app *App) *cobra.Command {
	var page, pageSize int
	var ff *filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users (search matches name <email>)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := c.UserState()
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err = ff.apply(cmd, st)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			users, err := s.ListUsers(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			p := filter.Paginate(filter.Apply(st, users), page, pageSize)
			meta := filterMeta(st)
			meta["total"] = p.Total
			meta["page"] = p.Number
			meta["pages"] = p.Pages
			meta["returned"] = len(p.Rows)
			return writeOut(cmd, app, map[string]any{
				"data": userPage{Page: p, cat: c},
				"meta": meta,
			})
		},
	}
	ff = addFilterFlags(cmd, app, (*catalog.Catalog).UserFacets, false)
	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, fmt.Sprintf("Rows per page (default %d)", filter.DefaultPageSize))
	return cmd
}

func newUsersAddCmd(app *App) *cobra.Command {
	var name, email, role, status string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name = strings.TrimSpace(name)
			email = strings.TrimSpace(email)
			if name == "" || email == "" {
				return writeErr(cmd, errors.New("users add: --name and --email are required"))
			}
			if !strings.Contains(email, "@") {
				return writeErr(cmd, fmt.Errorf("%w: email %q", filter.ErrInvalidValue, email))
			}
			c, err := loadCatalog(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			// Role and status must be options of the users table facets.
			st, err := c.UserState()
			if err != nil {
				return writeErr(cmd, err)
			}
			set := st.Facets()
			roleFacet, _ := set.Facet("role")
			if role = resolveOption(roleFacet, role); !roleFacet.HasOption(role) {
				return writeErr(cmd, fmt.Errorf("%w: role %q", filter.ErrInvalidValue, role))
			}
			statusFacet, _ := set.Facet("status")
			if status = resolveOption(statusFacet, status); !statusFacet.HasOption(status) {
				return writeErr(cmd, fmt.Errorf("%w: status %q", filter.ErrInvalidValue, status))
			}
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := idgen.User()
			if err != nil {
				return writeErr(cmd, err)
			}
			u := model.User{ID: id, Name: name, Email: email, Role: role, Status: status}
			if err := s.PutUser(cmd.Context(), u); err != nil {
				return writeErr(cmd, err)
			}
			u, err = s.GetUser(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": u})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&role, "role", "staff", "Role (admin|staff|viewer)")
	cmd.Flags().StringVar(&status, "status", "active", "Status (active|inactive|suspended)")
	return cmd
}
