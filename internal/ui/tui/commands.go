package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/usecase"
)

const callTimeout = 30 * time.Second

func cmdSendChat(chat *usecase.Chat, input string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		reply, err := chat.Send(ctx, input)
		return chatReplyMsg{reply: reply, err: err}
	}
}

func cmdLoadProfile(uc *usecase.LoadProfile) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		p, err := uc.Execute(ctx)
		return profileLoadedMsg{profile: p, err: err}
	}
}

func cmdLogin(uc *usecase.Authenticate, creds domain.Credentials, lang domain.Language) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		return authDoneMsg{action: actionLogin, err: uc.Login(ctx, creds, lang)}
	}
}

func cmdRegister(uc *usecase.Authenticate, reg domain.Registration, lang domain.Language) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		return authDoneMsg{action: actionRegister, err: uc.Register(ctx, reg, lang)}
	}
}

func cmdLogout(uc *usecase.Authenticate) tea.Cmd {
	return func() tea.Msg {
		return authDoneMsg{action: actionLogout, err: uc.Logout()}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}

		spec := domain.WorkspaceSpec{Root: root, APIBaseURL: deps.APIBaseURL, Language: deps.Language}
		err := usecase.NewInitWorkspace(deps.WorkspaceInitializer).Execute(spec, false)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}
