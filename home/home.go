package home

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tastytrail/discover"
	"tastytrail/views"
)

// feedSize is how many of the newest recipes the dashboard shows.
const feedSize = 8

type Handler struct {
	*views.Deps
}

func New(d *views.Deps) *Handler {
	return &Handler{Deps: d}
}

// Welcome is the public landing page.
func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.Render(w, r, http.StatusOK, views.PageHome, &views.HomePage{Layout: h.Layout(r, "Welcome", "home")})
}

// Dashboard lists the community's users and the newest recipes.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, ok := h.LoadUsers(w, r)
	if !ok {
		return
	}
	recipes, ok := h.LoadRecipes(w, r)
	if !ok {
		return
	}

	feed := discover.Apply(recipes, discover.Criteria{Sort: discover.SortRecent})
	if len(feed) > feedSize {
		feed = feed[:feedSize]
	}

	h.Render(w, r, http.StatusOK, views.PageDashboard, &views.DashboardPage{
		Layout:  h.Layout(r, "Dashboard", "dashboard"),
		Users:   users,
		Recipes: feed,
	})
}
