// Package web serves the payment split method admin pages.
package web

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmynk/paysplit/internal/auth"
	"github.com/mmynk/paysplit/internal/form"
	"github.com/mmynk/paysplit/internal/i18n"
	"github.com/mmynk/paysplit/internal/metrics"
	"github.com/mmynk/paysplit/internal/middleware"
	"github.com/mmynk/paysplit/internal/plugin"
	"github.com/mmynk/paysplit/internal/splitmethod"
	"github.com/mmynk/paysplit/internal/storage"
)

// Options are the dependencies of a Server.
type Options struct {
	Store         storage.MethodStore
	Registry      *plugin.Registry
	Authenticator auth.Authenticator
	JWT           *auth.JWTManager
	Metrics       *metrics.Metrics
	Translator    *i18n.Translator
	DocsURL       string
	// Secret signs flash message cookies.
	Secret        string
	SecureCookies bool
}

// Server renders and processes the admin forms.
type Server struct {
	routes   Routes
	store    storage.MethodStore
	registry *plugin.Registry
	list     *splitmethod.ListBuilder
	editor   *splitmethod.Editor
	auth     auth.Authenticator
	jwt      *auth.JWTManager
	metrics  *metrics.Metrics
	t        *i18n.Translator
	flash    *Messenger
	pages    map[string]*template.Template
	secure   bool
}

// NewServer parses the page templates and wires the listing.
func NewServer(opts Options) (*Server, error) {
	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	routes := DefaultRoutes()
	return &Server{
		routes:   routes,
		store:    opts.Store,
		registry: opts.Registry,
		list:     splitmethod.NewListBuilder(opts.Store, opts.Registry, routes, opts.Translator, opts.DocsURL),
		editor:   splitmethod.NewEditor(opts.Store, opts.Registry, opts.Translator),
		auth:     opts.Authenticator,
		jwt:      opts.JWT,
		metrics:  opts.Metrics,
		t:        opts.Translator,
		flash:    NewMessenger(opts.Secret, opts.SecureCookies),
		pages:    pages,
		secure:   opts.SecureCookies,
	}, nil
}

// Routes returns the route table used for links and redirects.
func (s *Server) Routes() Routes {
	return s.routes
}

// Register mounts the admin pages on mux.
func (s *Server) Register(mux *http.ServeMux) {
	admin := middleware.RequireAdmin(s.jwt, s.routes.Path(RouteLogin))
	handle := func(methods, route string, h http.HandlerFunc) {
		for _, m := range strings.Split(methods, ",") {
			mux.Handle(m+" "+s.routes.Path(route), admin(h))
		}
	}

	handle("GET,POST", splitmethod.RouteCollection, s.handleListing)
	handle("GET,POST", splitmethod.RouteAddForm, s.handleAdd)
	handle("GET,POST", splitmethod.RouteEditForm, s.handleEdit)
	handle("GET,POST", splitmethod.RouteDeleteForm, s.handleDelete)
	handle("POST", splitmethod.RouteEnable, s.handleStatus(true))
	handle("POST", splitmethod.RouteDisable, s.handleStatus(false))
	handle("GET", splitmethod.RoutePlugins, s.handlePlugins)

	mux.HandleFunc("GET "+s.routes.Path(RouteLogin), s.handleLogin)
	mux.HandleFunc("POST "+s.routes.Path(RouteLogin), s.handleLogin)
	mux.HandleFunc("POST "+s.routes.Path(RouteLogout), s.handleLogout)
	mux.Handle("GET "+s.routes.Path(RouteMetrics), s.metrics.Handler())
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, s.routes.Path(splitmethod.RouteCollection), http.StatusSeeOther)
	})
}

// page is the data of every rendered page.
type page struct {
	Lang      string
	Title     string
	Username  string
	LogoutURL string
	Messages  []string
	Errors    []form.FieldError

	Action       string
	Form         *form.Form
	State        *form.State
	HasDraggable bool

	Destination string
	LoginName   string

	Plugins []plugin.Definition
	BackURL string
}

func (s *Server) newPage(w http.ResponseWriter, r *http.Request, title string) *page {
	return &page{
		Lang:      s.t.Language(),
		Title:     title,
		Username:  middleware.GetUsername(r.Context()),
		LogoutURL: s.routes.Path(RouteLogout),
		Messages:  s.flash.Pop(w, r),
		Action:    r.URL.RequestURI(),
	}
}

func (s *Server) render(w http.ResponseWriter, name string, p *page, status int) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", p); err != nil {
		slog.Error("Failed to render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, title string, f *form.Form, st *form.State) {
	p := s.newPage(w, r, title)
	p.Form = f
	p.State = st
	p.HasDraggable = hasDraggable(f)
	p.Messages = append(p.Messages, st.Messages()...)
	p.Errors = st.Errors()
	status := http.StatusOK
	if st.HasErrors() {
		status = http.StatusUnprocessableEntity
	}
	s.render(w, pageForm, p, status)
}

// newState collects the submitted values of a POST.
func newState(r *http.Request) (*form.State, error) {
	if r.Method != http.MethodPost {
		return form.NewState(nil), nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return form.NewState(r.PostForm), nil
}

// process runs f against a submission and records action on success. It
// reports whether the response has been written; false means the form must be
// shown again with its errors.
func (s *Server) process(w http.ResponseWriter, r *http.Request, f *form.Form, st *form.State, action string) bool {
	submitted, err := form.Process(r.Context(), f, st)
	if err != nil {
		s.metrics.Form(f.ID, metrics.OutcomeError)
		s.fail(w, r, err)
		return true
	}
	if !submitted || st.HasErrors() {
		s.metrics.Form(f.ID, metrics.OutcomeInvalid)
		slog.Debug("Form rejected", "form_id", f.ID, "errors", len(st.Errors()))
		return false
	}
	s.metrics.Form(f.ID, metrics.OutcomeSubmitted)
	if action != "" {
		s.metrics.Change(action)
	}

	target := s.routes.Path(splitmethod.RouteCollection)
	if rd := st.Redirect(); rd != nil {
		target, err = s.routes.URL(rd.Route, rd.Params)
		if err != nil {
			s.fail(w, r, err)
			return true
		}
	}
	if err := s.flash.Add(w, r, st.Messages()...); err != nil {
		slog.Warn("Failed to store messages", "error", err)
	}
	slog.Info("Form submitted", "form_id", f.ID, "admin", middleware.GetUsername(r.Context()), "redirect", target)
	http.Redirect(w, r, target, http.StatusSeeOther)
	return true
}

// fail maps err to an HTTP status.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.failWith(w, r, statusOf(err), err)
}

func (s *Server) failWith(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		slog.Warn("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	http.Error(w, http.StatusText(status), status)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, plugin.ErrUnknownPlugin):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrLocked):
		return http.StatusForbidden
	case errors.Is(err, form.ErrNoTrigger):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	st, err := newState(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f, err := s.list.Render(r.Context(), st)
	if err != nil {
		// A stored method whose plugin is gone is not a missing page.
		if errors.Is(err, plugin.ErrUnknownPlugin) {
			s.failWith(w, r, http.StatusInternalServerError, err)
			return
		}
		s.fail(w, r, err)
		return
	}
	if r.Method == http.MethodPost && s.process(w, r, f, st, "") {
		return
	}
	s.renderForm(w, r, s.t.T("Payment split methods"), f, st)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	st, err := newState(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f, err := s.editor.AddForm(r.PathValue(splitmethod.ParamPluginID))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if r.Method == http.MethodPost && s.process(w, r, f, st, "create") {
		return
	}
	s.renderForm(w, r, s.t.T("Add payment method"), f, st)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	st, err := newState(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m, err := s.store.GetMethod(r.Context(), r.PathValue(splitmethod.ParamID))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	f, err := s.editor.EditForm(m)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if r.Method == http.MethodPost && s.process(w, r, f, st, "update") {
		return
	}
	s.renderForm(w, r, s.t.T("Edit %s", m.Label), f, st)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	st, err := newState(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m, err := s.store.GetMethod(r.Context(), r.PathValue(splitmethod.ParamID))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	f, err := s.editor.DeleteForm(m)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if r.Method == http.MethodPost && s.process(w, r, f, st, "delete") {
		return
	}
	s.renderForm(w, r, s.t.T("Delete %s", m.Label), f, st)
}

func (s *Server) handleStatus(enabled bool) http.HandlerFunc {
	action, msg := "disable", "The %s payment method has been disabled."
	if enabled {
		action, msg = "enable", "The %s payment method has been enabled."
	}
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.editor.SetStatus(r.Context(), r.PathValue(splitmethod.ParamID), enabled)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.metrics.Change(action)
		if err := s.flash.Add(w, r, s.t.T(msg, m.Label)); err != nil {
			slog.Warn("Failed to store messages", "error", err)
		}
		slog.Info("Method status changed", "method_id", m.ID, "enabled", enabled)
		http.Redirect(w, r, s.routes.Path(splitmethod.RouteCollection), http.StatusSeeOther)
	}
}

func (s *Server) handlePlugins(w http.ResponseWriter, r *http.Request) {
	p := s.newPage(w, r, s.t.T("Payment split plugins"))
	p.Plugins = s.registry.Sorted()
	p.BackURL = s.routes.Path(splitmethod.RouteCollection)
	s.render(w, pagePlugins, p, http.StatusOK)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	p := s.newPage(w, r, s.t.T("Log in"))
	p.Destination = r.FormValue("destination")

	if r.Method != http.MethodPost {
		s.render(w, pageLogin, p, http.StatusOK)
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	p.LoginName = username
	admin, err := s.auth.Authenticate(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			s.fail(w, r, err)
			return
		}
		slog.Warn("Login failed", "username", username)
		p.Errors = []form.FieldError{{Name: "username", Message: s.t.T("Unrecognized username or password.")}}
		s.render(w, pageLogin, p, http.StatusUnauthorized)
		return
	}

	token, err := s.jwt.Generate(admin)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.jwt.Duration().Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	slog.Info("Admin logged in", "admin_id", admin.ID, "username", admin.Username)
	http.Redirect(w, r, s.destination(p.Destination), http.StatusSeeOther)
}

// destination accepts only local paths.
func (s *Server) destination(dest string) string {
	if strings.HasPrefix(dest, "/") && !strings.HasPrefix(dest, "//") && !strings.HasPrefix(dest, "/\\") {
		return dest
	}
	return s.routes.Path(splitmethod.RouteCollection)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: middleware.SessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, s.routes.Path(RouteLogin), http.StatusSeeOther)
}
