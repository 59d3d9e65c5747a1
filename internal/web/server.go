// Package web serves the documents, users and report pages over HTTP.
package web

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"docdesk/internal/actions"
	"docdesk/internal/catalog"
	"docdesk/internal/filter"
	"docdesk/internal/logging"
	"docdesk/internal/model"
	"docdesk/internal/mutate"
	"docdesk/internal/perm"
	"docdesk/internal/store"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

type ServerConfig struct {
	Store   store.Store
	Catalog *catalog.Catalog
	// Actor is nil for the unrestricted local operator.
	Actor *model.User
	// DefaultFormat preselects the report form's file type.
	DefaultFormat filter.OutputFormat
	PageSize      int
	Logger        *slog.Logger
}

type Server struct {
	cfg  ServerConfig
	tmpl *template.Template
	log  *slog.Logger
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if strings.TrimSpace(cfg.Store.Dir) == "" {
		return nil, errors.New("web: store dir is empty")
	}
	if cfg.Catalog == nil {
		return nil, errors.New("web: catalog is nil")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = filter.DefaultPageSize
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.With("component", "web")
	}
	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim":       strings.TrimSpace,
		"rowActions": rowActionsOf,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, tmpl: tmpl, log: cfg.Logger}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /documents", s.handleDocuments)
	mux.HandleFunc("GET /documents/{id}", s.handleDocument)
	mux.HandleFunc("POST /documents/{id}/actions", s.handleDocumentAction)
	mux.HandleFunc("POST /documents/{id}/copy", s.handleDocumentCopy)
	mux.HandleFunc("GET /users", s.handleUsers)
	mux.HandleFunc("GET /reports", s.handleReports)
	mux.HandleFunc("POST /reports", s.handleReportCreate)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	ref := strings.TrimSpace(r.Header.Get("Referer"))
	if u, err := url.Parse(ref); err == nil && ref != "" && (u.Host == "" || u.Host == r.Host) {
		http.Redirect(w, r, u.RequestURI(), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, fallback, http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/documents", http.StatusSeeOther)
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, status int, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		s.log.Error("render", "template", name, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, html)
}

// httpError maps domain errors onto status codes.
func (s *Server) httpError(w http.ResponseWriter, err error) {
	var denied perm.DeniedError
	switch {
	case errors.As(err, &denied):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, filter.ErrInvalidValue), errors.Is(err, filter.ErrUnknownFacet), errors.Is(err, mutate.ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.log.Error("request failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) applier() mutate.Applier {
	return mutate.Applier{Store: s.cfg.Store, Statuses: s.cfg.Catalog.DocumentStatuses, Actor: s.cfg.Actor}
}

// dispatcher runs clipboard writes inline so they land on the request's event stream.
func (s *Server) dispatcher(clip actions.Clipboard) *actions.Dispatcher {
	return actions.NewDispatcher(s.cfg.Catalog.DocumentStatuses, clip,
		actions.WithGate(func(k actions.Kind) error { return perm.Check(s.cfg.Actor, k) }),
		actions.WithExecutor(func(fn func()) { fn() }),
		actions.WithLogger(s.log),
	)
}
