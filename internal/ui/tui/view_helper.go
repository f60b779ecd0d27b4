package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/sihhealth/healthbot/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func renderConversation(theme Theme, lang domain.Language, msgs []domain.ChatMessage, pending bool, width int) string {
	if len(msgs) == 0 && !pending {
		return theme.Subtitle.Render(text(lang, "welcome"))
	}

	body := lipgloss.NewStyle()
	if width > 8 {
		body = body.Width(width - 2)
	}

	var b strings.Builder
	for _, m := range msgs {
		switch {
		case m.Sender == domain.SenderUser:
			b.WriteString(theme.User.Render(text(lang, "you") + ":"))
		case m.Failed:
			b.WriteString(theme.Error.Render(text(lang, "bot") + ":"))
		default:
			b.WriteString(theme.Bot.Render(text(lang, "bot") + ":"))
		}
		b.WriteString("\n")
		b.WriteString(body.Render(m.Text))
		b.WriteString("\n\n")
	}
	if pending {
		b.WriteString(theme.Bot.Render(text(lang, "bot") + ":"))
		b.WriteString(" ")
		b.WriteString(text(lang, "thinking"))
		b.WriteString("\n")
	}
	return b.String()
}

func renderProfile(lang domain.Language, p domain.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", text(lang, "username"), p.Username)
	fmt.Fprintf(&b, "%s: %s\n", text(lang, "email"), p.Email)
	if p.Message != "" {
		b.WriteString("\n")
		b.WriteString(p.Message)
		b.WriteString("\n")
	}

	if len(p.Extra) > 0 {
		keys := make([]string, 0, len(p.Extra))
		for k := range p.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("\n")
		for _, k := range keys {
			b.WriteString("  - ")
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(clampString(scalar(p.Extra[k]), 80))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return "null"
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
