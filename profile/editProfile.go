package profile

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"tastytrail/forms"
	"tastytrail/models"
	"tastytrail/views"
)

const msgUnresolved = "⚠️ Could not resolve your user. Try re-login."

// EditProfile saves name and email, and the password only when one was typed.
func (h *Handler) EditProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	form, err := forms.Parse(r, forms.ProfileFields...)
	if err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	render := func(status int, apply func(*views.Layout), resolved bool) {
		page := &views.ProfilePage{
			Layout:   h.Layout(r, "Profile", "profile"),
			Form:     form.Without(forms.FieldPassword),
			Resolved: resolved,
		}
		apply(&page.Layout)
		h.Render(w, r, status, views.PageProfile, page)
	}

	me, err := h.resolveUser(r)
	if err != nil {
		if h.HandleAuthError(w, r, err) {
			return
		}
		h.Logger.Info("profile update: user unresolved", zap.Error(err))
		render(http.StatusOK, func(l *views.Layout) { l.Fail(msgUnresolved) }, false)
		return
	}

	if len(form.Missing(forms.ProfileRequired...)) > 0 {
		render(http.StatusUnprocessableEntity, func(l *views.Layout) { l.Fail(forms.MissingFieldsMessage) }, true)
		return
	}

	update := form.UserUpdate()
	if err := h.API.UpdateUser(r.Context(), h.Token(r), me.ID, update); err != nil {
		if h.HandleAuthError(w, r, err) {
			return
		}
		h.Logger.Warn("update profile", zap.Int64("id", me.ID), zap.Error(err))
		render(views.FailureStatus(err), func(l *views.Layout) {
			l.Fail(views.Failure(err, "Failed to update profile."))
		}, true)
		return
	}

	h.remember(w, r, models.User{ID: me.ID, Name: update.Name, Email: update.Email})
	render(http.StatusOK, func(l *views.Layout) { l.Succeed("✅ Profile updated successfully!", "", 0) }, true)
}
