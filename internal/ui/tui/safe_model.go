package tui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

// safeModel keeps a panic in one screen from killing the program (and the
// terminal state with it). On panic the user lands back on the menu with any
// half-typed credentials dropped.
type safeModel struct {
	m   model
	log *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return safeModel{m: m, log: log}
}

func (s safeModel) Init() tea.Cmd {
	return s.m.Init()
}

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.report("tui.update", r, fmt.Sprintf("%T", msg))
			s.m = s.m.recovered()
			tm = s
			cmd = nil
		}
	}()

	inner, c := s.m.Update(msg)

	if mm, ok := inner.(model); ok {
		s.m = mm
	} else if sm, ok := inner.(safeModel); ok {
		s = sm
	}

	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.report("tui.view", r, "")
			out = text(s.m.lang, "err_crash")
		}
	}()
	return s.m.View()
}

func (s safeModel) report(where string, r any, msgType string) {
	attrs := []any{
		"where", where,
		"screen", s.m.scr.String(),
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	}
	if msgType != "" {
		attrs = append(attrs, "msg_type", msgType)
	}
	s.log.Error("tui.panic.recovered", attrs...)
}

// recovered is the model after a panic: home screen, nothing in flight, and
// no login or register input kept around.
func (m model) recovered() model {
	m.scr = screenHome
	m.busy = false
	m.form = form{}
	m.input.Reset()
	m.input.Blur()
	m.toast = text(m.lang, "err_crash")
	return m
}

func (s screen) String() string {
	switch s {
	case screenHome:
		return "home"
	case screenChat:
		return "chat"
	case screenProfile:
		return "profile"
	case screenLogin:
		return "login"
	case screenRegister:
		return "register"
	}
	return fmt.Sprintf("screen(%d)", int(s))
}

var _ tea.Model = (*safeModel)(nil)
