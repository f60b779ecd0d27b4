package usecase

import (
	"testing"

	"github.com/sihhealth/healthbot/internal/domain"
)

type recordingInitializer struct {
	calls []domain.WorkspaceSpec
	force bool
}

func (r *recordingInitializer) Init(spec domain.WorkspaceSpec, force bool) error {
	r.calls = append(r.calls, spec)
	r.force = force
	return nil
}

func TestInitWorkspace_PassesWorkspaceSettings(t *testing.T) {
	rec := &recordingInitializer{}
	spec := domain.WorkspaceSpec{Root: "/w", APIBaseURL: "http://x/api", Language: domain.LangHindi}

	if err := NewInitWorkspace(rec).Execute(spec, true); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(rec.calls) != 1 || rec.calls[0] != spec || !rec.force {
		t.Fatalf("unexpected calls: %+v force=%v", rec.calls, rec.force)
	}
}

func TestInitWorkspace_RejectsUnknownLanguage(t *testing.T) {
	rec := &recordingInitializer{}
	err := NewInitWorkspace(rec).Execute(domain.WorkspaceSpec{Root: "/w", Language: "fr"}, false)
	if !domain.IsKind(err, domain.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("expected initializer not called")
	}
}
