package recipes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"tastytrail/globals"
	"tastytrail/models"
	"tastytrail/utils"
	"tastytrail/views"
)

const myRecipesPath = "/my-recipes"

// GetMyRecipes lists the recipes authored by the signed-in user. Without a
// known user id there is nothing to match, so the user is sent to the
// dashboard.
func (h *Handler) GetMyRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := h.Session(r).UserID
	if userID == 0 {
		h.Redirect(w, r, globals.FallbackPath)
		return
	}

	all, ok := h.LoadRecipes(w, r)
	if !ok {
		return
	}
	mine := make([]models.Recipe, 0, len(all))
	for _, rec := range all {
		if rec.OwnedBy(userID) {
			mine = append(mine, rec)
		}
	}

	h.Render(w, r, http.StatusOK, views.PageMine, &views.MyRecipesPage{
		Layout:  h.Layout(r, "My Recipes", "my-recipes"),
		Recipes: mine,
	})
}

// DeleteRecipe removes a recipe and returns to the list with a flash message.
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := utils.ParseID(ps, "id")
	if !ok {
		h.Redirect(w, r, myRecipesPath)
		return
	}

	sess := h.Session(r)
	if err := h.API.DeleteRecipe(r.Context(), sess.Token, id); err != nil {
		if h.HandleAuthError(w, r, err) {
			return
		}
		h.Logger.Warn("delete recipe", zap.Int64("id", id), zap.Error(err))
		sess.SetFlash(views.Failure(err, "Failed to delete recipe."), false)
	} else {
		sess.SetFlash("🗑️ Recipe deleted.", true)
	}
	h.SaveSession(w, r)
	h.Redirect(w, r, myRecipesPath)
}
