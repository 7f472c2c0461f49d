package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"tastytrail/globals"
	"tastytrail/metrics"
	"tastytrail/session"
	"tastytrail/utils"
)

// Guard loads the browser session and enforces login and CSRF on routes.
type Guard struct {
	Sessions *session.Manager
	Logger   *zap.Logger
}

// WithSession puts the request's session into the context. A new session
// is saved straight away so its cookie and CSRF token exist before the
// first form post.
func (g *Guard) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/static/") || r.URL.Path == "/health" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		sess, isNew, err := g.Sessions.Load(r)
		if err != nil {
			g.Logger.Error("load session", zap.Error(err))
			http.Error(w, "Session store unavailable", http.StatusServiceUnavailable)
			return
		}
		if isNew {
			if err := g.Sessions.Save(r.Context(), w, sess); err != nil {
				g.Logger.Error("save session", zap.Error(err))
				http.Error(w, "Session store unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
	})
}

// RequireSession stops unauthenticated requests before the handler runs,
// so no backend call is made for them. Pages are redirected to the login
// page; /api/ routes get a JSON 401.
func (g *Guard) RequireSession(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		sess := session.FromContext(r.Context())
		if sess.IsAuthenticated() {
			next(w, r, ps)
			return
		}

		reason := "missing_token"
		if sess != nil && sess.Token != "" {
			reason = "expired_token"
			sess.Clear()
			if err := g.Sessions.Save(r.Context(), w, sess); err != nil {
				g.Logger.Warn("save cleared session", zap.Error(err))
			}
		}
		metrics.SessionRedirectsTotal.WithLabelValues(reason).Inc()

		if strings.HasPrefix(r.URL.Path, "/api/") {
			utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		http.Redirect(w, r, globals.LoginPath, http.StatusSeeOther)
	}
}

// CSRF rejects state-changing requests whose form field or X-CSRF-Token
// header does not match the session's token.
func (g *Guard) CSRF(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next(w, r, ps)
			return
		}

		sess := session.FromContext(r.Context())
		sent := r.Header.Get("X-CSRF-Token")
		if sent == "" {
			sent = r.PostFormValue(globals.CSRFField)
		}
		if sess == nil || sess.CSRFToken == "" || subtle.ConstantTimeCompare([]byte(sent), []byte(sess.CSRFToken)) != 1 {
			g.Logger.Warn("csrf token mismatch", zap.String("path", r.URL.Path))
			http.Error(w, "Invalid or missing CSRF token", http.StatusForbidden)
			return
		}
		next(w, r, ps)
	}
}

// Protected is RequireSession followed by CSRF.
func (g *Guard) Protected(next httprouter.Handle) httprouter.Handle {
	return g.RequireSession(g.CSRF(next))
}

// SecurityHeaders applies the recommended HTTP security headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "same-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		// pages carry per-user data
		if !strings.HasPrefix(r.URL.Path, "/static/") {
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		}
		next.ServeHTTP(w, r)
	})
}
