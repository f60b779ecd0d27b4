package usecase

import (
	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/ports"
)

type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer) *InitWorkspace {
	return &InitWorkspace{initializer: initializer}
}

func (uc *InitWorkspace) Execute(spec domain.WorkspaceSpec, force bool) error {
	if spec.Language != "" {
		if _, ok := domain.ParseLanguage(string(spec.Language)); !ok {
			ve := &domain.ValidationError{}
			ve.Add("lang", "unsupported language "+string(spec.Language)+" (expected en|hi)")
			return ve
		}
	}
	return uc.initializer.Init(spec, force)
}
