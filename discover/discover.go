// Package discover filters and sorts a fetched recipe list for the
// discovery page. Everything here is pure: same input, same output, no I/O.
package discover

import (
	"cmp"
	"slices"

	"tastytrail/models"
	"tastytrail/utils"
)

type SortMode string

const (
	SortRecent   SortMode = "recent"
	SortPrepTime SortMode = "prep"
	SortPopular  SortMode = "popular"
)

// Label is the text shown on the sort button.
func (m SortMode) Label() string {
	switch m {
	case SortPrepTime:
		return "Prep Time"
	case SortPopular:
		return "Popularity"
	default:
		return "Recent"
	}
}

var SortModes = []SortMode{SortRecent, SortPrepTime, SortPopular}

// Criteria is the user's current selection on the discovery page.
//
// Categories maps a category name to whether it is included. A category
// missing from the map is included, so a nil map keeps everything.
type Criteria struct {
	Query      string
	Categories map[string]bool
	Sort       SortMode
}

// Apply returns the recipes to display, in display order. The input slice
// is never modified.
func Apply(recipes []models.Recipe, c Criteria) []models.Recipe {
	out := make([]models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if MatchesQuery(r, c.Query) && MatchesCategory(r, c.Categories) {
			out = append(out, r)
		}
	}
	Sort(out, c.Sort)
	return out
}

// MatchesQuery is a case-insensitive substring match on the title.
func MatchesQuery(r models.Recipe, query string) bool {
	return query == "" || utils.ContainsIgnoreCase(r.Title, query)
}

func MatchesCategory(r models.Recipe, toggles map[string]bool) bool {
	included, ok := toggles[r.Category]
	return !ok || included
}

// Sort orders recipes in place. Ties keep their relative order.
func Sort(recipes []models.Recipe, mode SortMode) {
	switch mode {
	case SortPrepTime:
		slices.SortStableFunc(recipes, func(a, b models.Recipe) int {
			return cmp.Compare(a.CookTime, b.CookTime)
		})
	case SortPopular:
		slices.SortStableFunc(recipes, func(a, b models.Recipe) int {
			return cmp.Compare(b.Likes, a.Likes)
		})
	default:
		// zero CreatedAt is the earliest possible time, so missing stamps sink
		slices.SortStableFunc(recipes, func(a, b models.Recipe) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
}
