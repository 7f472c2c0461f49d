package recipes

import (
	"math/rand/v2"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"tastytrail/globals"
	"tastytrail/models"
	"tastytrail/utils"
	"tastytrail/views"
)

const relatedCount = 4

type Handler struct {
	*views.Deps
	// shuffle picks the related recipes; tests swap it for a fixed order.
	shuffle func(n int, swap func(i, j int))
}

func New(d *views.Deps) *Handler {
	return &Handler{Deps: d, shuffle: rand.Shuffle}
}

// GetRecipe renders one recipe with a few others to try. A bad id or any
// fetch failure other than an auth failure lands on the dashboard.
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := utils.ParseID(ps, "id")
	if !ok {
		h.Redirect(w, r, globals.FallbackPath)
		return
	}

	token := h.Token(r)
	recipe, err := h.API.GetRecipe(r.Context(), token, id)
	if err != nil {
		if h.HandleAuthError(w, r, err) {
			return
		}
		h.Logger.Info("recipe unavailable", zap.Int64("id", id), zap.Error(err))
		h.Redirect(w, r, globals.FallbackPath)
		return
	}

	var related []models.Recipe
	if all, err := h.API.ListRecipes(r.Context(), token); err == nil {
		related = h.pickRelated(all, id)
	} else {
		h.Logger.Debug("related recipes unavailable", zap.Error(err))
	}

	h.Render(w, r, http.StatusOK, views.PageRecipe, &views.RecipePage{
		Layout:  h.Layout(r, recipe.Title, "recipe"),
		Recipe:  recipe,
		Related: related,
		IsOwner: recipe.OwnedBy(h.Session(r).UserID),
	})
}

// pickRelated returns up to relatedCount recipes other than id, in random order.
func (h *Handler) pickRelated(all []models.Recipe, id int64) []models.Recipe {
	others := make([]models.Recipe, 0, len(all))
	for _, rec := range all {
		if rec.ID != id {
			others = append(others, rec)
		}
	}
	h.shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })
	if len(others) > relatedCount {
		others = others[:relatedCount]
	}
	return others
}
