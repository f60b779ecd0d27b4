package ports

import "github.com/sihhealth/healthbot/internal/domain"

// TokenStore persists the session tokens between process runs.
// Load returns the zero Session (and no error) when nothing is stored.
type TokenStore interface {
	Load() (domain.Session, error)
	Save(s domain.Session) error
	Clear() error
}
