package ports

import (
	"context"

	"github.com/sihhealth/healthbot/internal/domain"
)

// AuthAPI is the portal's token surface. Implementations return
// *domain.AuthError for rejected calls and *domain.TransportError when the
// server could not be reached.
type AuthAPI interface {
	ObtainToken(ctx context.Context, creds domain.Credentials) (domain.Session, error)
	RefreshToken(ctx context.Context, refresh string) (domain.Session, error)
	Register(ctx context.Context, reg domain.Registration) (domain.Session, error)
}

// Doer executes one portal request with the given extra headers.
// A non-2xx status is not an error.
type Doer interface {
	Do(ctx context.Context, req domain.Request, headers domain.Headers) (domain.Response, error)
}

// Requester is what callers use to reach protected endpoints. The session
// manager implements it.
type Requester interface {
	Do(ctx context.Context, req domain.Request) (domain.Response, error)
}

// SessionAuthenticator starts and ends sessions. The session manager
// implements it.
type SessionAuthenticator interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.Session, error)
	Register(ctx context.Context, reg domain.Registration) (domain.Session, error)
	Logout() error
}

// SessionManager is the full session surface the CLI and TUI drive.
type SessionManager interface {
	Requester
	SessionAuthenticator
	State() domain.SessionState
	Claims() (domain.TokenClaims, bool)
}
