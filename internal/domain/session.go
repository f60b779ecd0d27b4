package domain

import "time"

// Session is the pair of bearer tokens for the current identity.
// The zero value is the anonymous session.
type Session struct {
	AccessToken  string `json:"access,omitempty"`
	RefreshToken string `json:"refresh,omitempty"`
}

// Valid reports whether both tokens are present.
func (s Session) Valid() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}

// SessionState is the externally visible state of the session manager.
type SessionState string

const (
	StateAnonymous     SessionState = "anonymous"
	StateAuthenticated SessionState = "authenticated"
)

// Credentials are sent to the token endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is sent to the register endpoint. Phone and Confirm are
// validated locally and never sent.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"-"`
	Confirm  string `json:"-"`
}

// TokenClaims is the unverified view of an access token, used for display and
// proactive refresh only.
type TokenClaims struct {
	UserID    string
	Username  string
	ExpiresAt time.Time
}

// Expired reports whether the claims carry an expiry at or before now.
func (c TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
