package fsworkspace

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/infra/workspacefinder"
)

func TestInitializer_Init_CreatesWorkspaceFiles(t *testing.T) {
	tmp := t.TempDir()

	i := NewInitializer()
	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	assertFileExists(t, filepath.Join(tmp, "healthbot.yaml"))
	assertFileExists(t, filepath.Join(tmp, ".gitignore"))

	state := filepath.Join(tmp, ".healthbot")
	info, err := os.Stat(state)
	if err != nil {
		t.Fatalf("stat state dir: %v", err)
	}
	if runtime.GOOS != "windows" {
		if got := info.Mode().Perm(); got != 0o700 {
			t.Fatalf("expected state dir mode 700, got %o", got)
		}
	}

	cfg, err := workspacefinder.LoadConfig(tmp)
	if err != nil {
		t.Fatalf("template should load cleanly: %v", err)
	}
	if cfg.API.BaseURL != domain.DefaultConfig().API.BaseURL {
		t.Fatalf("expected template base url to match defaults, got %s", cfg.API.BaseURL)
	}
}

func TestInitializer_Init_SkipsExistingFilesUnlessForce(t *testing.T) {
	tmp := t.TempDir()

	cfgPath := filepath.Join(tmp, "healthbot.yaml")
	if err := os.WriteFile(cfgPath, []byte("custom\n"), 0o644); err != nil {
		t.Fatalf("write existing healthbot.yaml: %v", err)
	}

	i := NewInitializer()

	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init (force=false) error: %v", err)
	}

	b, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read healthbot.yaml: %v", err)
	}
	if string(b) != "custom\n" {
		t.Fatalf("expected healthbot.yaml preserved, got %q", string(b))
	}

	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, true); err != nil {
		t.Fatalf("Init (force=true) error: %v", err)
	}
	b, err = os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read healthbot.yaml: %v", err)
	}
	if !strings.Contains(string(b), "base_url") {
		t.Fatalf("expected healthbot.yaml overwritten with template, got %q", string(b))
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file %s to exist: %v", path, err)
	}
}

func TestInitializer_Init_RendersWorkspaceValues(t *testing.T) {
	tmp := t.TempDir()

	spec := domain.WorkspaceSpec{Root: tmp, APIBaseURL: "https://portal.example.in/api", Language: domain.LangHindi}
	if err := NewInitializer().Init(spec, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	cfg, err := workspacefinder.LoadConfig(tmp)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.API.BaseURL != "https://portal.example.in/api" {
		t.Fatalf("expected rendered base url, got %s", cfg.API.BaseURL)
	}
	if cfg.Chat.Language != domain.LangHindi {
		t.Fatalf("expected hi, got %s", cfg.Chat.Language)
	}
	if cfg.API.Timeout != domain.DefaultConfig().API.Timeout {
		t.Fatalf("expected default timeout, got %s", cfg.API.Timeout)
	}
}
