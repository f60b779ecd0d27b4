package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formField struct {
	key    string
	secret bool
}

// form is a vertical list of text inputs with one focused at a time.
type form struct {
	keys   []string
	inputs []textinput.Model
	focus  int
}

func newForm(labels func(string) string, fields ...formField) form {
	f := form{
		keys:   make([]string, 0, len(fields)),
		inputs: make([]textinput.Model, 0, len(fields)),
	}
	for _, fd := range fields {
		ti := textinput.New()
		ti.Prompt = labels(fd.key) + ": "
		ti.CharLimit = 128
		if fd.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.keys = append(f.keys, fd.key)
		f.inputs = append(f.inputs, ti)
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func (f form) value(key string) string {
	for i, k := range f.keys {
		if k == key {
			return f.inputs[i].Value()
		}
	}
	return ""
}

func (f form) onLast() bool {
	return f.focus == len(f.inputs)-1
}

func (f *form) move(delta int) {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	if len(f.inputs) == 0 {
		return f, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f form) view() string {
	var b strings.Builder
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	return b.String()
}
