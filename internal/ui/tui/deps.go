package tui

import (
	"log/slog"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/ports"
)

type Deps struct {
	Sessions             ports.SessionManager
	WorkspaceInitializer ports.WorkspaceInitializer

	WorkspaceRoot string
	APIBaseURL    string
	Language      domain.Language

	Logger *slog.Logger
	Debug  bool
}
