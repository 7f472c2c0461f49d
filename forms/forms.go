// Package forms reads posted HTML forms into flat field maps and builds the
// backend payloads from them.
package forms

import (
	"net/http"
	"strconv"
	"strings"
	"unicode"
)

// Form field names. The cuisine field keeps the backend's spelling.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldIngredients = "ingredients"
	FieldSteps       = "steps"
	FieldCookTime    = "cookTime"
	FieldCuisine     = "cusine"
	FieldCategory    = "category"
	FieldImageURL    = "imageUrl"

	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
)

var (
	RecipeFields = []string{FieldTitle, FieldDescription, FieldIngredients, FieldSteps, FieldCookTime, FieldCuisine, FieldCategory, FieldImageURL}
	LoginFields  = []string{FieldEmail, FieldPassword}
	SignupFields = []string{FieldName, FieldEmail, FieldPassword}

	ProfileFields   = []string{FieldName, FieldEmail, FieldPassword}
	ProfileRequired = []string{FieldName, FieldEmail}
)

const MissingFieldsMessage = "⚠️ Please fill in all required fields."

// Values is a flat field name to value mapping.
type Values map[string]string

// Parse reads the named fields from the request's form body.
func Parse(r *http.Request, fields ...string) (Values, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	v := make(Values, len(fields))
	for _, f := range fields {
		v[f] = r.PostForm.Get(f)
	}
	return v, nil
}

func (v Values) Get(name string) string {
	return v[name]
}

func (v Values) Trimmed(name string) string {
	return strings.TrimSpace(v[name])
}

// Missing returns the fields among required that are blank.
func (v Values) Missing(required ...string) []string {
	var out []string
	for _, f := range required {
		if v.Trimmed(f) == "" {
			out = append(out, f)
		}
	}
	return out
}

// Without returns a copy of v minus the named fields. Used to avoid
// echoing passwords back into a re-rendered form.
func (v Values) Without(names ...string) Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	for _, n := range names {
		delete(out, n)
	}
	return out
}

// Atoi parses the leading integer of s. Anything unparseable, and any
// negative number, yields 0.
func Atoi(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		return 0
	}
	return n
}
