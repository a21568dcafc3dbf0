package session

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Session is the current authenticated identity plus its bearer credential.
// It is persisted so a browser reload (or a service restart) does not log the
// customer out. The token is stored verbatim; this service never judges token
// expiry itself; the backend's 401 is the only authority.
type Session struct {
	ID          string `gorm:"primaryKey"`
	UserID      string
	DisplayName string
	Email       string
	Role        string
	Token       string

	// Decoded from the token without signature verification, for cleanup and
	// diagnostics only. Never used to authorize anything.
	TokenSubject   string
	TokenExpiresAt *time.Time

	CreatedAt  time.Time
	LastSeenAt time.Time
}

func (Session) TableName() string { return "sessions" }

// Authenticated reports whether the session carries a usable identity.
// Invariant: true implies both token and role are set.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && s.Role != ""
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// annotateFromToken fills the diagnostic claim fields from the bearer token.
// The signature is deliberately not verified: the backend issued the token and
// remains the authority on its validity.
func (s *Session) annotateFromToken() {
	if s.Token == "" {
		return
	}
	claims := jwtlib.MapClaims{}
	parser := jwtlib.NewParser()
	if _, _, err := parser.ParseUnverified(s.Token, claims); err != nil {
		return
	}
	if sub, err := claims.GetSubject(); err == nil {
		s.TokenSubject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		s.TokenExpiresAt = &t
	}
}
