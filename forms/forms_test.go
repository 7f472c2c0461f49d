package forms

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tastytrail/models"
)

func TestAtoi(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"30", 30},
		{" 45 ", 45},
		{"abc", 0},
		{"", 0},
		{"12 minutes", 12},
		{"-5", 0},
		{"+7", 7},
		{"3.5", 3},
		{"99999999999999999999", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Atoi(tt.in))
		})
	}
}

func postForm(t *testing.T, form url.Values) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/post-recipe", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestParseAndMissing(t *testing.T) {
	v, err := Parse(postForm(t, url.Values{
		"title":   {"Pancakes"},
		"steps":   {"   "},
		"ignored": {"x"},
	}), RecipeFields...)
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", v.Get(FieldTitle))
	_, hasIgnored := v["ignored"]
	assert.False(t, hasIgnored)
	assert.Equal(t, []string{FieldSteps, FieldCookTime}, v.Missing(FieldTitle, FieldSteps, FieldCookTime))
	assert.Empty(t, v.Missing(FieldTitle))
}

func TestNewRecipe_UnparseableCookTimeIsZero(t *testing.T) {
	v := Values{
		FieldTitle:    "Toast",
		FieldCookTime: "abc",
		FieldCuisine:  "French",
		FieldImageURL: "  https://img.example/toast.jpg  ",
	}
	in := v.NewRecipe(9)

	assert.Equal(t, 0, in.CookTime)
	assert.Equal(t, "https://img.example/toast.jpg", in.ImageURL)
	require.NotNil(t, in.Likes)
	assert.Equal(t, 0, *in.Likes)
	require.NotNil(t, in.AuthorID)
	assert.Equal(t, int64(9), *in.AuthorID)

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"cookTime":0`)
	assert.Contains(t, string(raw), `"cusine":"French"`)
	assert.Contains(t, string(raw), `"likes":0`)
}

func TestNewRecipe_UnknownAuthorOmitted(t *testing.T) {
	raw, err := json.Marshal(Values{FieldTitle: "x"}.NewRecipe(0))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "authorId")
}

func TestRecipeUpdate_NoLikes(t *testing.T) {
	in := Values{FieldCookTime: "20"}.RecipeUpdate(3)
	assert.Nil(t, in.Likes)
	assert.Equal(t, 20, in.CookTime)
	require.NotNil(t, in.AuthorID)
}

func TestFromRecipe(t *testing.T) {
	v := FromRecipe(models.Recipe{Title: "Soup", CookTime: 40, Cuisine: "Thai"})
	assert.Equal(t, "Soup", v.Get(FieldTitle))
	assert.Equal(t, "40", v.Get(FieldCookTime))
	assert.Equal(t, "Thai", v.Get(FieldCuisine))

	assert.Equal(t, "0", FromRecipe(models.Recipe{}).Get(FieldCookTime))
}

func TestUserPayloads(t *testing.T) {
	v := Values{FieldName: " Ann ", FieldEmail: " ann@trail.io ", FieldPassword: ""}

	raw, err := json.Marshal(v.UserUpdate())
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Ann","email":"ann@trail.io"}`, string(raw))

	assert.Equal(t, models.Credentials{Email: "ann@trail.io"}, v.Credentials())
	assert.Equal(t, "Ann", v.Signup().Name)

	safe := Values{FieldEmail: "a", FieldPassword: "secret"}.Without(FieldPassword)
	_, has := safe[FieldPassword]
	assert.False(t, has)
}
