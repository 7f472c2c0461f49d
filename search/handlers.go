// Package search serves the recipe discovery page and its JSON twin.
package search

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"tastytrail/discover"
	"tastytrail/models"
	"tastytrail/utils"
	"tastytrail/views"
)

type Handler struct {
	*views.Deps
}

func New(d *views.Deps) *Handler {
	return &Handler{Deps: d}
}

// Discover renders the filtered and sorted recipe list for the query string.
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	recipes, ok := h.LoadRecipes(w, r)
	if !ok {
		return
	}
	criteria := discover.ParseCriteria(r.URL.Query())

	h.Render(w, r, http.StatusOK, views.PageDiscover, &views.DiscoverPage{
		Layout:     h.Layout(r, "Discover", "discover"),
		Criteria:   criteria,
		Categories: discover.Categories(),
		SortModes:  discover.SortModes,
		Recipes:    discover.Apply(recipes, criteria),
		Total:      len(recipes),
	})
}

// Result is the body of GET /api/discover.
type Result struct {
	Query      string          `json:"query"`
	Sort       string          `json:"sort"`
	Categories map[string]bool `json:"categories,omitempty"`
	Total      int             `json:"total"`
	Count      int             `json:"count"`
	Recipes    []models.Recipe `json:"recipes"`
}

// DiscoverJSON applies the same criteria as the page and answers with JSON.
// Unlike the page, a backend failure is reported as 502.
func (h *Handler) DiscoverJSON(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	recipes, err := h.API.ListRecipes(r.Context(), h.Token(r))
	if err != nil {
		if h.HandleAuthError(w, r, err) {
			return
		}
		h.Logger.Warn("discover api fetch failed", zap.Error(err))
		utils.RespondWithError(w, http.StatusBadGateway, "Could not load recipes")
		return
	}

	criteria := discover.ParseCriteria(r.URL.Query())
	shown := discover.Apply(recipes, criteria)

	utils.SendResponse(w, http.StatusOK, Result{
		Query:      criteria.Query,
		Sort:       string(criteria.Sort),
		Categories: criteria.Categories,
		Total:      len(recipes),
		Count:      len(shown),
		Recipes:    shown,
	}, "ok")
}
