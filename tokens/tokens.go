// Package tokens reads the payload of the backend's bearer token.
//
// The frontend cannot verify the signature (it does not hold the backend's
// key) and does not need to: the backend checks the token on every call. The
// payload is only used to prefill forms and to notice an expired session
// early.
package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformed = errors.New("malformed token")

// Claims the backend is known to put in its tokens. Only Email is
// guaranteed; the id claim shows up as "id" or "userId" depending on the
// backend version.
type Claims struct {
	Email  string `json:"email"`
	ID     any    `json:"id,omitempty"`
	UserID any    `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// Decode parses the token without verifying its signature.
func Decode(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMalformed
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return claims, nil
}

// Email returns the email claim, or "" when the token cannot be read.
func Email(token string) string {
	c, err := Decode(token)
	if err != nil {
		return ""
	}
	return c.Email
}

// Expired reports whether the token carries an exp claim in the past.
// Opaque or unreadable tokens are not considered expired; the backend
// decides for those.
func Expired(token string, now time.Time) bool {
	c, err := Decode(token)
	if err != nil || c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}

// UserIDValue returns the numeric user id claim, or 0.
func (c *Claims) UserIDValue() int64 {
	for _, v := range []any{c.UserID, c.ID} {
		switch id := v.(type) {
		case float64:
			return int64(id)
		case string:
			if n, err := strconv.ParseInt(id, 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}
