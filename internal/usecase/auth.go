package usecase

import (
	"context"
	"strings"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/ports"
)

// Authenticate validates login and registration forms before handing them to
// the session manager, so a malformed form never reaches the server.
type Authenticate struct {
	sessions ports.SessionAuthenticator
}

func NewAuthenticate(sessions ports.SessionAuthenticator) *Authenticate {
	return &Authenticate{sessions: sessions}
}

func (uc *Authenticate) Login(ctx context.Context, creds domain.Credentials, lang domain.Language) error {
	creds.Username = strings.TrimSpace(creds.Username)
	if err := ValidateLogin(creds, lang); err != nil {
		return err
	}
	_, err := uc.sessions.Login(ctx, creds)
	return err
}

func (uc *Authenticate) Register(ctx context.Context, reg domain.Registration, lang domain.Language) error {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	if err := ValidateRegistration(reg, lang); err != nil {
		return err
	}
	_, err := uc.sessions.Register(ctx, reg)
	return err
}

func (uc *Authenticate) Logout() error {
	return uc.sessions.Logout()
}
