package fsworkspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sihhealth/healthbot/internal/app/template"
	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/ports"
)

// Initializer creates a workspace: healthbot.yaml, the private state
// directory, and .gitignore entries that keep session tokens out of git.
type Initializer struct{}

func NewInitializer() *Initializer {
	return &Initializer{}
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	root := filepath.Clean(spec.Root)

	if err := os.MkdirAll(filepath.Join(root, ".healthbot", "logs"), 0o700); err != nil {
		return err
	}

	if err := ensureGitignore(root); err != nil {
		return err
	}

	vars := templateVars(spec)

	return fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, "templates/")
		dst := filepath.Join(root, rel)

		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return err
		}

		out, err := template.RenderString(string(b), vars)
		if err != nil {
			return err
		}

		return os.WriteFile(dst, []byte(out), 0o644)
	})
}

func templateVars(spec domain.WorkspaceSpec) map[string]string {
	def := domain.DefaultConfig()

	base := strings.TrimSpace(spec.APIBaseURL)
	if base == "" {
		base = def.API.BaseURL
	}
	lang := spec.Language
	if lang == "" {
		lang = def.Chat.Language
	}

	return map[string]string{
		"BASE_URL":     base,
		"TIMEOUT":      def.API.Timeout.String(),
		"LANG":         string(lang),
		"SESSION_FILE": def.Session.File,
	}
}

func ensureGitignore(root string) error {
	const header = "# healthbot"
	entries := []string{
		".healthbot/",
		"*.tmp",
	}

	path := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{header}, entries...)
			lines = append(lines, "")
			return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		present[trimmed] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	out.Grow(len(existing) + 64)

	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[header] {
		out.WriteString(header)
		out.WriteByte('\n')
	}
	for _, e := range missing {
		out.WriteString(e)
		out.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(out.String()), 0o644)
}
