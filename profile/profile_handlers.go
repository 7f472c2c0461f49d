package profile

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"tastytrail/api"
	"tastytrail/forms"
	"tastytrail/models"
	"tastytrail/tokens"
	"tastytrail/views"
)

type Handler struct {
	*views.Deps
}

func New(d *views.Deps) *Handler {
	return &Handler{Deps: d}
}

// errUnresolved means the backend holds no user matching the session.
var errUnresolved = errors.New("user not resolved")

// GetProfile shows the profile form prefilled from the backend user. When
// the user cannot be found, only the email from the token is filled in.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	me, err := h.resolveUser(r)
	if err != nil && h.HandleAuthError(w, r, err) {
		return
	}

	page := &views.ProfilePage{}
	if err == nil {
		h.remember(w, r, me)
		page.Resolved = true
		page.Form = forms.Values{forms.FieldName: me.Name, forms.FieldEmail: me.Email}
	} else {
		h.Logger.Debug("profile user unresolved", zap.Error(err))
		page.Form = forms.Values{forms.FieldEmail: h.tokenEmail(r)}
	}
	page.Layout = h.Layout(r, "Profile", "profile")
	h.Render(w, r, http.StatusOK, views.PageProfile, page)
}

// tokenEmail is the email carried by the bearer token, falling back to the
// one stored at login.
func (h *Handler) tokenEmail(r *http.Request) string {
	sess := h.Session(r)
	if email := tokens.Email(sess.Token); email != "" {
		return email
	}
	return sess.Email
}

// resolveUser finds the signed-in user: by stored id first, then by email
// in the user list.
func (h *Handler) resolveUser(r *http.Request) (models.User, error) {
	sess := h.Session(r)
	if sess.UserID > 0 {
		u, err := h.API.GetUser(r.Context(), sess.Token, sess.UserID)
		if err == nil {
			return u, nil
		}
		if errors.Is(err, api.ErrUnauthorized) {
			return models.User{}, err
		}
	}

	users, err := h.API.ListUsers(r.Context(), sess.Token)
	if err != nil {
		return models.User{}, err
	}
	for _, email := range []string{h.tokenEmail(r), sess.Email} {
		if me, ok := models.FindUserByEmail(users, email); ok {
			return me, nil
		}
	}
	return models.User{}, errUnresolved
}

// remember copies the resolved user into the session when it differs.
func (h *Handler) remember(w http.ResponseWriter, r *http.Request, me models.User) {
	sess := h.Session(r)
	if sess.UserID == me.ID && sess.Name == me.Name && sess.Email == me.Email {
		return
	}
	sess.SetUser(me.ID, me.Name)
	if me.Email != "" {
		sess.Email = me.Email
	}
	h.SaveSession(w, r)
}
