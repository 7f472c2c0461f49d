package auth

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"tastytrail/forms"
	"tastytrail/globals"
	"tastytrail/models"
	"tastytrail/views"
)

const (
	loginRedirectDelay = 800 * time.Millisecond

	msgLoginOK      = "✅ Login successful! Redirecting to dashboard..."
	msgSignupOK     = "Signup successful! 🎉 You can now log in."
	msgGenericError = "Something went wrong!"
)

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, form forms.Values, apply func(*views.Layout)) {
	page := &views.AuthPage{Layout: h.Layout(r, "Log in", "login"), Form: form.Without(forms.FieldPassword)}
	if apply != nil {
		apply(&page.Layout)
	}
	h.Render(w, r, status, views.PageLogin, page)
}

func (h *Handler) renderSignup(w http.ResponseWriter, r *http.Request, status int, form forms.Values, apply func(*views.Layout)) {
	page := &views.AuthPage{Layout: h.Layout(r, "Sign up", "signup"), Form: form.Without(forms.FieldPassword)}
	if apply != nil {
		apply(&page.Layout)
	}
	h.Render(w, r, status, views.PageSignup, page)
}

func fail(msg string) func(*views.Layout) {
	return func(l *views.Layout) { l.Fail(msg) }
}

func (h *Handler) loginHandler(w http.ResponseWriter, r *http.Request) {
	form, err := forms.Parse(r, forms.LoginFields...)
	if err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, nil, fail("⚠️ Invalid form submission."))
		return
	}
	if len(form.Missing(forms.LoginFields...)) > 0 {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, form, fail("⚠️ Please enter your email and password."))
		return
	}

	res, err := h.API.Login(r.Context(), form.Credentials())
	if err != nil {
		h.Logger.Info("login rejected", zap.Error(err))
		h.renderLogin(w, r, views.FailureStatus(err), form, fail(views.Failure(err, msgGenericError)))
		return
	}

	sess := h.Session(r)
	sess.SetToken(res.Token, res.Email)
	h.resolveUser(r, sess.Email)

	if err := h.Sessions.Rotate(r.Context(), w, sess); err != nil {
		h.Logger.Error("save session after login", zap.Error(err))
		h.renderLogin(w, r, http.StatusServiceUnavailable, form, fail("⚠️ Could not start your session. Please try again."))
		return
	}

	h.renderLogin(w, r, http.StatusOK, nil, func(l *views.Layout) {
		l.Succeed(msgLoginOK, globals.FallbackPath, loginRedirectDelay)
	})
}

// resolveUser looks the user up by email to learn their id and name. It
// never fails the login.
func (h *Handler) resolveUser(r *http.Request, email string) {
	sess := h.Session(r)
	if email == "" {
		return
	}
	users, err := h.API.ListUsers(r.Context(), sess.Token)
	if err != nil {
		h.Logger.Debug("resolve user after login", zap.Error(err))
		return
	}
	if me, ok := models.FindUserByEmail(users, email); ok {
		sess.SetUser(me.ID, me.Name)
	}
}

func (h *Handler) registerHandler(w http.ResponseWriter, r *http.Request) {
	form, err := forms.Parse(r, forms.SignupFields...)
	if err != nil {
		h.renderSignup(w, r, http.StatusBadRequest, nil, fail("⚠️ Invalid form submission."))
		return
	}
	if len(form.Missing(forms.SignupFields...)) > 0 {
		h.renderSignup(w, r, http.StatusUnprocessableEntity, form, fail(forms.MissingFieldsMessage))
		return
	}

	if err := h.API.Signup(r.Context(), form.Signup()); err != nil {
		h.Logger.Info("signup rejected", zap.Error(err))
		h.renderSignup(w, r, views.FailureStatus(err), form, fail(views.Failure(err, msgGenericError)))
		return
	}

	h.renderSignup(w, r, http.StatusCreated, nil, func(l *views.Layout) {
		l.Succeed(msgSignupOK, "", 0)
	})
}

func (h *Handler) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	h.Session(r).Clear()
	h.SaveSession(w, r)
	h.Redirect(w, r, globals.LoginPath)
}
