package forms

import (
	"strconv"

	"tastytrail/models"
)

func (v Values) recipeInput() models.RecipeInput {
	return models.RecipeInput{
		Title:       v.Get(FieldTitle),
		Description: v.Get(FieldDescription),
		Ingredients: v.Get(FieldIngredients),
		Steps:       v.Get(FieldSteps),
		CookTime:    Atoi(v.Get(FieldCookTime)),
		Cuisine:     v.Get(FieldCuisine),
		Category:    v.Get(FieldCategory),
		ImageURL:    v.Trimmed(FieldImageURL),
	}
}

// NewRecipe builds a create payload. Likes start at zero; authorID is sent
// only when known.
func (v Values) NewRecipe(authorID int64) models.RecipeInput {
	in := v.recipeInput()
	likes := 0
	in.Likes = &likes
	if authorID > 0 {
		in.AuthorID = &authorID
	}
	return in
}

// RecipeUpdate builds an update payload. Likes are left to the backend.
func (v Values) RecipeUpdate(authorID int64) models.RecipeInput {
	in := v.recipeInput()
	if authorID > 0 {
		in.AuthorID = &authorID
	}
	return in
}

// FromRecipe prefills the edit form.
func FromRecipe(r models.Recipe) Values {
	return Values{
		FieldTitle:       r.Title,
		FieldDescription: r.Description,
		FieldIngredients: r.Ingredients,
		FieldSteps:       r.Steps,
		FieldCuisine:     r.Cuisine,
		FieldCategory:    r.Category,
		FieldImageURL:    r.ImageURL,
		FieldCookTime:    strconv.Itoa(r.CookTime),
	}
}

func (v Values) Credentials() models.Credentials {
	return models.Credentials{Email: v.Trimmed(FieldEmail), Password: v.Get(FieldPassword)}
}

func (v Values) Signup() models.SignupInput {
	return models.SignupInput{
		Name:     v.Trimmed(FieldName),
		Email:    v.Trimmed(FieldEmail),
		Password: v.Get(FieldPassword),
	}
}

func (v Values) UserUpdate() models.UserUpdate {
	return models.UserUpdate{
		Name:     v.Trimmed(FieldName),
		Email:    v.Trimmed(FieldEmail),
		Password: v.Get(FieldPassword),
	}
}
