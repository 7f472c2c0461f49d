package models

import (
	"encoding/json"
	"strings"
	"time"
)

const DefaultRecipeImage = "/static/food_bg.png"

// Recipe as served by the backend. The backend spells the cuisine key
// "cusine"; "cuisine" is accepted on read as well.
type Recipe struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Ingredients string    `json:"ingredients"`
	Steps       string    `json:"steps"`
	CookTime    int       `json:"cookTime"`
	Cuisine     string    `json:"cusine"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	AuthorID    *int64    `json:"authorId,omitempty"`
	Likes       int       `json:"likes"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (r *Recipe) UnmarshalJSON(data []byte) error {
	type alias Recipe
	aux := struct {
		*alias
		AltCuisine string          `json:"cuisine"`
		CookTime   json.RawMessage `json:"cookTime"`
		CreatedAt  json.RawMessage `json:"createdAt"`
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.Cuisine == "" {
		r.Cuisine = aux.AltCuisine
	}
	r.CookTime = parseLooseInt(aux.CookTime)
	r.CreatedAt = parseLooseTime(aux.CreatedAt)
	return nil
}

// IngredientList splits the newline-delimited ingredients, dropping blank lines.
func (r Recipe) IngredientList() []string { return splitLines(r.Ingredients) }

// StepList splits the newline-delimited steps, dropping blank lines.
func (r Recipe) StepList() []string { return splitLines(r.Steps) }

func (r Recipe) Image() string {
	if strings.TrimSpace(r.ImageURL) == "" {
		return DefaultRecipeImage
	}
	return r.ImageURL
}

// OwnedBy reports whether the recipe's author is userID.
func (r Recipe) OwnedBy(userID int64) bool {
	return r.AuthorID != nil && userID != 0 && *r.AuthorID == userID
}

// RecipeInput is the create/update payload.
type RecipeInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Ingredients string `json:"ingredients"`
	Steps       string `json:"steps"`
	CookTime    int    `json:"cookTime"`
	Cuisine     string `json:"cusine"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl"`
	Likes       *int   `json:"likes,omitempty"`
	AuthorID    *int64 `json:"authorId,omitempty"`
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
