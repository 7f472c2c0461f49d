package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"tastytrail/globals"
	"tastytrail/utils"
)

// Manager ties a Store to the session cookie.
type Manager struct {
	store  Store
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(store Store, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, ttl: ttl, secure: secure, now: time.Now}
}

func (m *Manager) Store() Store { return m.store }

// Load returns the session named by the request cookie. A missing, unknown
// or expired cookie yields a fresh unsaved session and isNew=true.
func (m *Manager) Load(r *http.Request) (s *Session, isNew bool, err error) {
	if c, cerr := r.Cookie(globals.SessionCookie); cerr == nil && c.Value != "" {
		s, err = m.store.Get(r.Context(), c.Value)
		if err == nil {
			return s, false, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, false, err
		}
	}
	return m.New(), true, nil
}

func (m *Manager) New() *Session {
	now := m.now()
	return &Session{
		ID:        utils.GetUUID(),
		CSRFToken: utils.GetUUID(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
}

// Save persists s, slides its expiry forward and writes the cookie.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	s.ExpiresAt = m.now().Add(m.ttl)
	if err := m.store.Save(ctx, s); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     globals.SessionCookie,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Rotate moves s to a fresh id, for use when the user logs in.
func (m *Manager) Rotate(ctx context.Context, w http.ResponseWriter, s *Session) error {
	oldID := s.ID
	s.ID = utils.GetUUID()
	if err := m.Save(ctx, w, s); err != nil {
		return err
	}
	return m.store.Delete(ctx, oldID)
}

// Destroy removes s from the store and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	http.SetCookie(w, &http.Cookie{
		Name:     globals.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return m.store.Delete(ctx, s.ID)
}
