package auth

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tastytrail/views"
)

// Handler serves the login, signup and logout routes.
type Handler struct {
	*views.Deps
}

func New(d *views.Deps) *Handler {
	return &Handler{Deps: d}
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.renderLogin(w, r, http.StatusOK, nil, nil)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.loginHandler(w, r)
}

func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.renderSignup(w, r, http.StatusOK, nil, nil)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.registerHandler(w, r)
}

func (h *Handler) LogoutUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.logoutUserHandler(w, r)
}
