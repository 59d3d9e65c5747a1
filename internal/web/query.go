package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"docdesk/internal/filter"
)

// Filters live in the URL: one parameter per facet id, q for search, from/to for the
// date range and page. Links are shareable and the back button works.

// stateFromQuery folds q into base. A rejected parameter is reported and skipped, so the
// rest of the filters still apply.
func stateFromQuery(base filter.State, q url.Values) (filter.State, []string) {
	st := base
	var problems []string
	for _, f := range base.Facets().Facets() {
		if f.Kind != filter.KindCategorical || !q.Has(f.ID) {
			continue
		}
		next, err := st.ApplyFacetChange(f.ID, filter.Text(q.Get(f.ID)))
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		st = next
	}
	if v := q.Get("q"); v != "" {
		st = st.ApplySearchTerm(v)
	}
	if from, to := q.Get("from"), q.Get("to"); from != "" || to != "" {
		r, err := filter.ParseDateBounds(from, to)
		if err == nil {
			st, err = st.ApplyDateRange(r)
		}
		if err != nil {
			problems = append(problems, err.Error())
		}
	}
	return st, problems
}

// queryOf is the inverse of stateFromQuery; defaults are left out.
func queryOf(st filter.State) url.Values {
	v := url.Values{}
	for _, f := range st.Facets().Active() {
		if f.Kind == filter.KindCategorical {
			v.Set(f.ID, f.Value.Text)
		}
	}
	if q := st.Search(); q != "" {
		v.Set("q", q)
	}
	r := st.DateRange()
	if r.From != nil {
		v.Set("from", r.From.Format(filter.DateLayout))
	}
	if r.To != nil {
		v.Set("to", r.To.Format(filter.DateLayout))
	}
	return v
}

func pageParam(q url.Values) int {
	n, err := strconv.Atoi(strings.TrimSpace(q.Get("page")))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func pageURL(path string, st filter.State, page int) string {
	v := queryOf(st)
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

const noticeCookie = "docdesk_notice"

// setNotice carries a one-shot message across a POST/redirect/GET.
func setNotice(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeNotice reads and clears the notice.
func takeNotice(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(noticeCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: noticeCookie, Value: "", Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

func countLabel(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
