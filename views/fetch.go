package views

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"tastytrail/api"
	"tastytrail/globals"
	"tastytrail/metrics"
	"tastytrail/models"
	"tastytrail/session"
	"tastytrail/utils"
)

// Deps bundles what every page handler needs, together with the shared
// fetch policy: list failures become empty lists, while 401 and 403
// clear the session and send the browser to the login page.
type Deps struct {
	API      *api.Client
	Sessions *session.Manager
	Views    *Renderer
	Logger   *zap.Logger
}

// Session returns the request's session. Routes always run behind the
// session middleware, so nil only shows up in misconfigured tests.
func (d *Deps) Session(r *http.Request) *session.Session {
	if s := session.FromContext(r.Context()); s != nil {
		return s
	}
	return &session.Session{}
}

func (d *Deps) Token(r *http.Request) string {
	return d.Session(r).Token
}

// Layout starts the shared chrome for a page.
func (d *Deps) Layout(r *http.Request, title, current string) Layout {
	s := d.Session(r)
	l := Layout{
		Title:           title,
		CurrentPage:     current,
		CSRFToken:       s.CSRFToken,
		IsAuthenticated: s.IsAuthenticated(),
	}
	if l.IsAuthenticated {
		l.User = &User{ID: s.UserID, Name: s.Name, Email: s.Email}
	}
	return l
}

// Render writes page with status. A pending flash message is shown once
// unless the page already carries its own message.
func (d *Deps) Render(w http.ResponseWriter, r *http.Request, status int, name string, page LayoutProvider) {
	l := page.LayoutData()
	if s := session.FromContext(r.Context()); s != nil && s.Flash != "" {
		msg, ok := s.PopFlash()
		if l.Message == "" {
			l.Message, l.Success = msg, ok
		}
		d.SaveSession(w, r)
	}

	if err := d.Views.Render(w, status, name, page); err != nil {
		d.Logger.Error("render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// SaveSession persists the request's session. A failure is logged and the
// request carries on with its in-memory copy.
func (d *Deps) SaveSession(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	if s == nil {
		return
	}
	if err := d.Sessions.Save(r.Context(), w, s); err != nil {
		d.Logger.Error("save session", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

// Redirect sends a 303 so a POST is followed by a GET.
func (d *Deps) Redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// AuthFailed clears the credential and sends the browser to log in again.
func (d *Deps) AuthFailed(w http.ResponseWriter, r *http.Request) {
	d.Session(r).Clear()
	d.SaveSession(w, r)
	metrics.SessionRedirectsTotal.WithLabelValues("unauthorized").Inc()

	if strings.HasPrefix(r.URL.Path, "/api/") {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	d.Redirect(w, r, globals.LoginPath)
}

// HandleAuthError runs AuthFailed when err is a 401 or 403 and reports
// whether it did.
func (d *Deps) HandleAuthError(w http.ResponseWriter, r *http.Request, err error) bool {
	if errors.Is(err, api.ErrUnauthorized) {
		d.AuthFailed(w, r)
		return true
	}
	return false
}

// LoadRecipes fetches the recipe list with the session token. Any failure
// other than an auth failure yields an empty list. ok is false when the
// response has already been written.
func (d *Deps) LoadRecipes(w http.ResponseWriter, r *http.Request) (recipes []models.Recipe, ok bool) {
	recipes, err := d.API.ListRecipes(r.Context(), d.Token(r))
	if err != nil {
		if d.HandleAuthError(w, r, err) {
			return nil, false
		}
		d.logFetch(r.Context(), "list recipes", err)
		return []models.Recipe{}, true
	}
	return recipes, true
}

// LoadUsers is LoadRecipes for the user list.
func (d *Deps) LoadUsers(w http.ResponseWriter, r *http.Request) (users []models.User, ok bool) {
	users, err := d.API.ListUsers(r.Context(), d.Token(r))
	if err != nil {
		if d.HandleAuthError(w, r, err) {
			return nil, false
		}
		d.logFetch(r.Context(), "list users", err)
		return []models.User{}, true
	}
	return users, true
}

func (d *Deps) logFetch(ctx context.Context, what string, err error) {
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return
	}
	d.Logger.Warn("backend fetch failed", zap.String("op", what), zap.Error(err))
}

// Failure formats a backend error for display on a form page.
func Failure(err error, fallback string) string {
	return "⚠️ " + api.Message(err, fallback)
}

// FailureStatus is the status a form page is re-rendered with after err:
// the backend's own 4xx, or 502 for anything else.
func FailureStatus(err error) int {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}
