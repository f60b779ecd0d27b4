package tui

import (
	"errors"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/sihhealth/healthbot/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

// UserMessage maps err to the single line shown to the user.
func UserMessage(err error, lang domain.Language) string {
	if err == nil {
		return ""
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		keys := make([]string, 0, len(ve.Fields))
		for k := range ve.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		msgs := make([]string, 0, len(keys))
		for _, k := range keys {
			msgs = append(msgs, ve.Fields[k])
		}
		return strings.Join(msgs, "; ")
	}

	var ae *domain.AuthError
	if errors.As(err, &ae) {
		if strings.TrimSpace(ae.Message) != "" {
			return ae.Message
		}
		return text(lang, "err_auth")
	}

	if domain.IsKind(err, domain.KindTransport) {
		return text(lang, "err_unreachable")
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {

		case domain.KindNotFound:
			if strings.Contains(oe.Op, "workspacefinder") {
				return "Workspace not found (tip: run `healthbot init`)"
			}
			return "Not found"

		case domain.KindInvalidConfig:
			base := "config"
			if strings.TrimSpace(oe.Path) != "" {
				base = filepath.Base(oe.Path)
			}

			line := extractLine(err.Error())
			if line != "" {
				return "Invalid YAML at " + base + " line " + line
			}

			if looksLikeYAMLProblem(err.Error()) {
				return "Invalid YAML at " + base
			}
			if strings.Contains(oe.Op, "tokenstore") {
				return "Saved session is unreadable; log in again"
			}
			return "Invalid config: " + innerMessage(oe)

		case domain.KindExecution:
			if strings.HasPrefix(oe.Op, "portalapi") {
				return text(lang, "err_portal") + ": " + innerMessage(oe)
			}
			return "Unexpected error (see logs)"

		default:
			return "Unexpected error (see logs)"
		}
	}

	if looksLikeYAMLProblem(err.Error()) {
		line := extractLine(err.Error())
		if line != "" {
			return "Invalid YAML line " + line
		}
		return "Invalid YAML"
	}

	return "Unexpected error (see logs)"
}

func innerMessage(oe *domain.OpError) string {
	if oe.Err == nil {
		return string(oe.Kind)
	}
	return oe.Err.Error()
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}
