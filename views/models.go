package views

import (
	"time"

	"tastytrail/discover"
	"tastytrail/forms"
	"tastytrail/globals"
	"tastytrail/models"
)

// User is the signed-in user as shown in the header.
type User struct {
	ID    int64
	Name  string
	Email string
}

// Layout captures shared chrome: title, active nav item, auth state and the
// page message.
type Layout struct {
	Title           string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	User            *User

	Message string
	Success bool

	// RedirectTo, when set, sends the browser there after RedirectAfter.
	RedirectTo    string
	RedirectAfter time.Duration
}

func (l *Layout) LayoutData() *Layout { return l }

// RedirectMillis is RedirectAfter in milliseconds, for the page script.
func (l *Layout) RedirectMillis() int64 { return l.RedirectAfter.Milliseconds() }

// RedirectSeconds rounds RedirectAfter up to whole seconds for the meta
// refresh fallback.
func (l *Layout) RedirectSeconds() int64 {
	return int64((l.RedirectAfter + time.Second - 1) / time.Second)
}

// Fail sets an error message.
func (l *Layout) Fail(msg string) {
	l.Message = msg
	l.Success = false
}

// Succeed sets a success message and, when to is non-empty, a delayed
// navigation.
func (l *Layout) Succeed(msg, to string, after time.Duration) {
	l.Message = msg
	l.Success = true
	l.RedirectTo = to
	l.RedirectAfter = after
}

// LayoutProvider is implemented by every page model.
type LayoutProvider interface {
	LayoutData() *Layout
}

type HomePage struct {
	Layout
}

type AuthPage struct {
	Layout
	Form forms.Values
}

type DashboardPage struct {
	Layout
	Users   []models.User
	Recipes []models.Recipe
}

type DiscoverPage struct {
	Layout
	Criteria   discover.Criteria
	Categories []string
	SortModes  []discover.SortMode
	Recipes    []models.Recipe
	Total      int
}

type RecipePage struct {
	Layout
	Recipe  models.Recipe
	Related []models.Recipe
	IsOwner bool
}

type RecipeFormPage struct {
	Layout
	Form       forms.Values
	Action     string
	Editing    bool
	RecipeID   int64
	Categories []string
	Cuisines   []string
}

// NewRecipeFormPage fills in the option lists shared by create and edit.
func NewRecipeFormPage(form forms.Values, action string) *RecipeFormPage {
	if form == nil {
		form = forms.Values{}
	}
	return &RecipeFormPage{
		Form:       form,
		Action:     action,
		Categories: globals.Categories,
		Cuisines:   globals.Cuisines,
	}
}

type ProfilePage struct {
	Layout
	Form     forms.Values
	Resolved bool
}

type MyRecipesPage struct {
	Layout
	Recipes []models.Recipe
}
