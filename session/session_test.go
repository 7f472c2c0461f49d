package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tastytrail/db"
	"tastytrail/globals"
	"tastytrail/rdx"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func TestSession_IsAuthenticated(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.IsAuthenticated())
	assert.False(t, (&Session{}).IsAuthenticated())
	assert.True(t, (&Session{Token: "opaque"}).IsAuthenticated())

	live := signed(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	assert.True(t, (&Session{Token: live}).IsAuthenticated())

	stale := signed(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
	assert.False(t, (&Session{Token: stale}).IsAuthenticated())
}

func TestSession_SetTokenFallsBackToClaims(t *testing.T) {
	s := &Session{}
	s.SetToken(signed(t, jwt.MapClaims{"email": "cook@trail.io", "id": 7}), "")
	assert.Equal(t, "cook@trail.io", s.Email)
	assert.Equal(t, int64(7), s.UserID)

	s = &Session{}
	s.SetToken("opaque", "given@trail.io")
	assert.Equal(t, "given@trail.io", s.Email)
	assert.Zero(t, s.UserID)
}

func TestSession_Clear(t *testing.T) {
	s := &Session{ID: "sid", CSRFToken: "csrf", Token: "t", UserID: 3, Name: "Ann", Email: "a@b"}
	s.Clear()
	assert.Empty(t, s.Token)
	assert.Zero(t, s.UserID)
	assert.Empty(t, s.Name)
	assert.Empty(t, s.Email)
	assert.Equal(t, "sid", s.ID)
	assert.Equal(t, "csrf", s.CSRFToken)
}

func TestSession_Flash(t *testing.T) {
	s := &Session{}
	s.SetFlash("Recipe deleted.", true)

	msg, ok := s.PopFlash()
	assert.Equal(t, "Recipe deleted.", msg)
	assert.True(t, ok)

	msg, ok = s.PopFlash()
	assert.Empty(t, msg)
	assert.False(t, ok)
}

func TestContextRoundTrip(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	s := &Session{ID: "x"}
	assert.Same(t, s, FromContext(NewContext(context.Background(), s)))
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s := &Session{
		ID:        "sess-" + time.Now().Format("150405.000000000"),
		Token:     "tok",
		UserID:    5,
		Name:      "Ann",
		Email:     "ann@trail.io",
		CSRFToken: "csrf",
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Token, got.Token)
	assert.Equal(t, s.UserID, got.UserID)
	assert.Equal(t, s.Email, got.Email)
	assert.True(t, s.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_ExpiryAndSweep(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Session{ID: "old", ExpiresAt: now.Add(-time.Second)}))
	require.NoError(t, store.Save(ctx, &Session{ID: "new", ExpiresAt: now.Add(time.Minute)}))

	_, err := store.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 1, store.Sweep())
	_, err = store.Get(ctx, "new")
	assert.NoError(t, err)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &Session{ID: "a", Token: "t", ExpiresAt: time.Now().Add(time.Hour)}))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	got.Token = ""

	again, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "t", again.Token)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	client, err := rdx.Connect(context.Background(), url, "")
	require.NoError(t, err)
	store := NewRedisStore(client)
	defer store.Close(context.Background())

	exerciseStore(t, store)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}
	ctx := context.Background()
	client, err := db.Connect(ctx, uri)
	require.NoError(t, err)
	coll := db.Sessions(client, "tastytrail_test")
	store, err := NewMongoStore(ctx, coll)
	require.NoError(t, err)
	defer store.Close(ctx)

	exerciseStore(t, store)
}

func TestManager_LoadNewWhenCookieMissing(t *testing.T) {
	m := NewManager(NewMemoryStore(), time.Hour, false)
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	s, isNew, err := m.Load(r)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotEmpty(t, s.ID)
	assert.NotEmpty(t, s.CSRFToken)
	assert.NotEqual(t, s.ID, s.CSRFToken)
}

func TestManager_SaveThenLoad(t *testing.T) {
	m := NewManager(NewMemoryStore(), time.Hour, true)
	s := m.New()
	s.Token = "tok"

	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(context.Background(), rec, s))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, globals.SessionCookie, c.Name)
	assert.Equal(t, s.ID, c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(c)
	loaded, isNew, err := m.Load(r)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, "tok", loaded.Token)
}

func TestManager_UnknownCookieStartsFresh(t *testing.T) {
	m := NewManager(NewMemoryStore(), time.Hour, false)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: globals.SessionCookie, Value: "forged"})

	s, isNew, err := m.Load(r)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotEqual(t, "forged", s.ID)
}

func TestManager_Rotate(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, time.Hour, false)
	s := m.New()
	s.CSRFToken = "keep"
	require.NoError(t, m.Save(context.Background(), httptest.NewRecorder(), s))
	oldID := s.ID

	rec := httptest.NewRecorder()
	require.NoError(t, m.Rotate(context.Background(), rec, s))

	assert.NotEqual(t, oldID, s.ID)
	assert.Equal(t, "keep", s.CSRFToken)
	assert.Equal(t, s.ID, rec.Result().Cookies()[0].Value)

	_, err := store.Get(context.Background(), oldID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(context.Background(), s.ID)
	assert.NoError(t, err)
}

func TestManager_Destroy(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, time.Hour, false)
	s := m.New()
	require.NoError(t, m.Save(context.Background(), httptest.NewRecorder(), s))

	rec := httptest.NewRecorder()
	require.NoError(t, m.Destroy(context.Background(), rec, s))
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)

	_, err := store.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
