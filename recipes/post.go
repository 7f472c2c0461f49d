package recipes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"tastytrail/forms"
	"tastytrail/globals"
	"tastytrail/utils"
	"tastytrail/views"
)

const (
	postRedirectDelay = 1500 * time.Millisecond
	editRedirectDelay = 1000 * time.Millisecond
)

func editPath(id int64) string {
	return "/recipe/" + strconv.FormatInt(id, 10) + "/edit"
}

// renderForm fills in the shared chrome, keeping any message or redirect
// the caller already set on the page.
func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, page *views.RecipeFormPage) {
	title, current := "Post Recipe", "post-recipe"
	if page.Editing {
		title, current = "Edit Recipe", "my-recipes"
	}
	kept := page.Layout
	page.Layout = h.Layout(r, title, current)
	page.Message, page.Success = kept.Message, kept.Success
	page.RedirectTo, page.RedirectAfter = kept.RedirectTo, kept.RedirectAfter
	h.Render(w, r, status, views.PageForm, page)
}

func (h *Handler) PostRecipeForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.renderForm(w, r, http.StatusOK, views.NewRecipeFormPage(nil, "/post-recipe"))
}

// CreateRecipe posts a new recipe. The cook time falls back to 0 when it
// cannot be parsed.
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	form, err := forms.Parse(r, forms.RecipeFields...)
	if err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	page := views.NewRecipeFormPage(form, "/post-recipe")

	if len(form.Missing(forms.RecipeFields...)) > 0 {
		page.Layout.Fail(forms.MissingFieldsMessage)
		h.renderForm(w, r, http.StatusUnprocessableEntity, page)
		return
	}

	sess := h.Session(r)
	if err := h.API.CreateRecipe(r.Context(), sess.Token, form.NewRecipe(sess.UserID)); err != nil {
		if h.HandleAuthError(w, r, err) {
			return
		}
		h.Logger.Warn("create recipe", zap.Error(err))
		page.Layout.Fail(views.Failure(err, "Failed to post recipe. Please try again."))
		h.renderForm(w, r, views.FailureStatus(err), page)
		return
	}

	page = views.NewRecipeFormPage(nil, "/post-recipe")
	page.Layout.Succeed("🎉 Recipe posted successfully!", globals.FallbackPath, postRedirectDelay)
	h.renderForm(w, r, http.StatusCreated, page)
}

// EditRecipeForm prefills the edit form from the backend.
func (h *Handler) EditRecipeForm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := utils.ParseID(ps, "id")
	if !ok {
		h.Redirect(w, r, myRecipesPath)
		return
	}

	recipe, err := h.API.GetRecipe(r.Context(), h.Token(r), id)
	if err != nil {
		if h.HandleAuthError(w, r, err) {
			return
		}
		h.Logger.Info("edit: recipe unavailable", zap.Int64("id", id), zap.Error(err))
		h.Redirect(w, r, myRecipesPath)
		return
	}

	page := views.NewRecipeFormPage(forms.FromRecipe(recipe), editPath(id))
	page.Editing = true
	page.RecipeID = id
	h.renderForm(w, r, http.StatusOK, page)
}

// UpdateRecipe saves the edit form.
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := utils.ParseID(ps, "id")
	if !ok {
		h.Redirect(w, r, myRecipesPath)
		return
	}
	form, err := forms.Parse(r, forms.RecipeFields...)
	if err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	page := views.NewRecipeFormPage(form, editPath(id))
	page.Editing = true
	page.RecipeID = id

	if len(form.Missing(forms.RecipeFields...)) > 0 {
		page.Layout.Fail(forms.MissingFieldsMessage)
		h.renderForm(w, r, http.StatusUnprocessableEntity, page)
		return
	}

	sess := h.Session(r)
	if err := h.API.UpdateRecipe(r.Context(), sess.Token, id, form.RecipeUpdate(sess.UserID)); err != nil {
		if h.HandleAuthError(w, r, err) {
			return
		}
		h.Logger.Warn("update recipe", zap.Int64("id", id), zap.Error(err))
		page.Layout.Fail(views.Failure(err, "Failed to update recipe."))
		h.renderForm(w, r, views.FailureStatus(err), page)
		return
	}

	page.Layout.Succeed("✅ Recipe updated successfully!", myRecipesPath, editRedirectDelay)
	h.renderForm(w, r, http.StatusOK, page)
}
