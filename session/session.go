// Package session holds the per-browser session: the backend bearer token
// plus the user's id, name and email. It is the single source of truth for
// "is this visitor logged in".
package session

import (
	"context"
	"time"

	"tastytrail/globals"
	"tastytrail/tokens"
)

type Session struct {
	ID        string    `json:"id" bson:"_id"`
	Token     string    `json:"token,omitempty" bson:"token,omitempty"`
	UserID    int64     `json:"userId,omitempty" bson:"userId,omitempty"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty"`
	CSRFToken string    `json:"csrfToken" bson:"csrfToken"`
	Flash     string    `json:"flash,omitempty" bson:"flash,omitempty"`
	FlashOK   bool      `json:"flashOk,omitempty" bson:"flashOk,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
}

// IsAuthenticated reports whether a usable token is present. A token whose
// exp claim has passed counts as absent.
func (s *Session) IsAuthenticated() bool {
	if s == nil || s.Token == "" {
		return false
	}
	return !tokens.Expired(s.Token, time.Now())
}

// SetToken stores the bearer token returned by login. When the backend did
// not echo the email, it is taken from the token payload.
func (s *Session) SetToken(token, email string) {
	s.Token = token
	s.Email = email
	if claims, err := tokens.Decode(token); err == nil {
		if s.Email == "" {
			s.Email = claims.Email
		}
		if id := claims.UserIDValue(); id != 0 {
			s.UserID = id
		}
	}
}

func (s *Session) SetUser(id int64, name string) {
	s.UserID = id
	if name != "" {
		s.Name = name
	}
}

// Clear forgets the credential and everything derived from it.
func (s *Session) Clear() {
	s.Token = ""
	s.UserID = 0
	s.Name = ""
	s.Email = ""
}

// SetFlash queues a message for the next rendered page.
func (s *Session) SetFlash(msg string, success bool) {
	s.Flash = msg
	s.FlashOK = success
}

// PopFlash returns the pending one-shot message and removes it.
func (s *Session) PopFlash() (msg string, success bool) {
	msg, success = s.Flash, s.FlashOK
	s.Flash, s.FlashOK = "", false
	return msg, success
}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, globals.SessionKey, s)
}

// FromContext returns the request's session, or nil outside the session middleware.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(globals.SessionKey).(*Session)
	return s
}
