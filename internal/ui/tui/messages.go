package tui

import "github.com/sihhealth/healthbot/internal/domain"

type chatReplyMsg struct {
	reply domain.ChatMessage
	err   error
}

type profileLoadedMsg struct {
	profile domain.Profile
	err     error
}

type authAction int

const (
	actionLogin authAction = iota
	actionRegister
	actionLogout
)

type authDoneMsg struct {
	action authAction
	err    error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}
