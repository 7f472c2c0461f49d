package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tastytrail/models"
)

type recorded struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

func newBackend(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recorded) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Body)
		}
		mu.Lock()
		calls = append(calls, rec)
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", nil, 5*time.Second, nil), &calls
}

func TestLoginThenListRecipesSendsBearer(t *testing.T) {
	c, calls := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			_, _ = w.Write([]byte(`{"message":"ok","token":"tok-123","email":"a@b.com"}`))
		case "/recipes":
			_, _ = w.Write([]byte(`{"data":[{"id":1,"title":"Soup"}]}`))
		}
	})
	ctx := context.Background()

	res, err := c.Login(ctx, models.Credentials{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "tok-123", res.Token)
	assert.Equal(t, "a@b.com", res.Email)

	recipes, err := c.ListRecipes(ctx, res.Token)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Soup", recipes[0].Title)

	require.Len(t, *calls, 2)
	login := (*calls)[0]
	assert.Equal(t, http.MethodPost, login.Method)
	assert.Empty(t, login.Auth)
	assert.Equal(t, "a@b.com", login.Body["email"])
	assert.Equal(t, "x", login.Body["password"])
	assert.Equal(t, "Bearer tok-123", (*calls)[1].Auth)
}

func TestListRecipes_RawBodyWithoutEnvelope(t *testing.T) {
	c, calls := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
	})

	recipes, err := c.ListRecipes(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, recipes, 2)
	assert.Empty(t, (*calls)[0].Auth)
}

func TestErrorsCarryStatusAndMessage(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid token"}`))
		case "/recipes/9":
			w.WriteHeader(http.StatusNotFound)
		case "/signup":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"Email already registered"}`))
		}
	})
	ctx := context.Background()

	_, err := c.ListUsers(ctx, "expired")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid token", Message(err, "fallback"))

	_, err = c.GetRecipe(ctx, "tok", 9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "fallback", Message(err, "fallback"))

	err = c.Signup(ctx, models.SignupInput{Name: "A", Email: "a@b.com", Password: "x"})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Email already registered", Message(err, "fallback"))
}

func TestForbiddenIsUnauthorized(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	err := c.DeleteRecipe(context.Background(), "tok", 3)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestNetworkErrorIsNotAPIError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil, time.Second, nil)
	_, err := c.ListRecipes(context.Background(), "")
	require.Error(t, err)
	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, "generic", Message(err, "generic"))
}

func TestWriteCallsUseExpectedMethodsAndPaths(t *testing.T) {
	c, calls := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})
	ctx := context.Background()
	author := int64(5)

	require.NoError(t, c.CreateRecipe(ctx, "tok", models.RecipeInput{Title: "Tea", CookTime: 0, AuthorID: &author}))
	require.NoError(t, c.UpdateRecipe(ctx, "tok", 11, models.RecipeInput{Title: "Tea 2"}))
	require.NoError(t, c.DeleteRecipe(ctx, "tok", 11))
	require.NoError(t, c.UpdateUser(ctx, "tok", 5, models.UserUpdate{Name: "A", Email: "a@b.com"}))

	got := *calls
	require.Len(t, got, 4)
	assert.Equal(t, [2]string{http.MethodPost, "/recipes"}, [2]string{got[0].Method, got[0].Path})
	assert.Equal(t, float64(5), got[0].Body["authorId"])
	assert.Equal(t, float64(0), got[0].Body["cookTime"])
	assert.Equal(t, [2]string{http.MethodPut, "/recipes/11"}, [2]string{got[1].Method, got[1].Path})
	assert.Equal(t, [2]string{http.MethodDelete, "/recipes/11"}, [2]string{got[2].Method, got[2].Path})
	assert.Equal(t, [2]string{http.MethodPut, "/users/5"}, [2]string{got[3].Method, got[3].Path})
	_, hasPassword := got[3].Body["password"]
	assert.False(t, hasPassword)
	for _, call := range got {
		assert.Equal(t, "Bearer tok", call.Auth)
	}
}

func TestGetUser(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":5,"name":"Ann","email":"a@b.com"}}`))
	})
	u, err := c.GetUser(context.Background(), "tok", 5)
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
}
