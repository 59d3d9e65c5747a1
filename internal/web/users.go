package web

import (
	"fmt"
	"net/http"

	"docdesk/internal/filter"
)

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	base, err := s.cfg.Catalog.UserState()
	if err != nil {
		s.httpError(w, err)
		return
	}
	q := r.URL.Query()
	st, problems := stateFromQuery(base, q)

	users, err := s.cfg.Store.ListUsers(r.Context())
	if err != nil {
		s.httpError(w, err)
		return
	}
	p := filter.Paginate(filter.Apply(st, users), pageParam(q), s.cfg.PageSize)

	c := s.cfg.Catalog
	vm := usersVM{
		baseVM:  s.baseVMForRequest(w, r, "Users", "users"),
		Toolbar: toolbarOf("/users", st, problems),
		Page:    pageOf("/users", st, p, fmt.Sprintf("%d of %s", p.Total, countLabel(len(users), "user", "users"))),
	}
	for _, u := range p.Rows {
		vm.Rows = append(vm.Rows, userRowVM{
			User:        u,
			Profile:     u.Profile(),
			RoleLabel:   c.Label("role", u.Role),
			StatusLabel: c.Label("user_status", u.Status),
			CreatedText: u.CreatedAt.Format(filter.DateLayout),
		})
	}
	s.writeHTMLTemplate(w, http.StatusOK, "users.html", vm)
}
