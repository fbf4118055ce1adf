package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleMember is granted to every signed-in patron.
const RoleMember = "member"

// User is the signed-in patron.
type User struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	Token string   `json:"token,omitempty"`
}

// NewMember builds the user stored after a successful login.
func NewMember(email, token string) User {
	return User{Email: email, Roles: []string{RoleMember}, Token: token}
}

// ExpiresAt returns the exp claim of the user's token. The signature is
// not checked; the server does that on every request. ok is false when
// the token is absent, opaque or carries no exp.
func (u User) ExpiresAt() (exp time.Time, ok bool) {
	if u.Token == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(u.Token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the token's exp has passed at now.
func (u User) Expired(now time.Time) bool {
	exp, ok := u.ExpiresAt()
	return ok && !now.Before(exp)
}

// User returns the signed-in user. A stored user whose token has expired
// is cleared and reported as signed out.
func (s *Session) User() (User, bool) {
	u := Read(s.store, KeyUser, User{})
	if u.Email == "" {
		return User{}, false
	}
	if u.Expired(time.Now()) {
		_ = s.store.Delete(KeyUser)
		return User{}, false
	}
	return u, true
}

// SetUser stores u as the signed-in user.
func (s *Session) SetUser(u User) error {
	return Write(s.store, KeyUser, u)
}

// Logout clears the signed-in user. The view history is kept.
func (s *Session) Logout() error {
	return s.store.Delete(KeyUser)
}
