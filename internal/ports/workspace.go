package ports

import "github.com/sihhealth/healthbot/internal/domain"

// WorkspaceLocator finds a healthbot workspace root starting from an arbitrary directory.
type WorkspaceLocator interface {
	FindRoot(startDir string) (string, error)
}

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
