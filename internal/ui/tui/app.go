package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/infra/workspacefinder"
	"github.com/sihhealth/healthbot/internal/usecase"
)

type screen int

const (
	screenHome screen = iota
	screenChat
	screenProfile
	screenLogin
	screenRegister
)

const (
	itemChat     = "chat"
	itemProfile  = "profile"
	itemLogin    = "login"
	itemRegister = "register"
	itemLogout   = "logout"
	itemLanguage = "language"
	itemInit     = "init"
	itemQuit     = "quit"
)

type menuItem struct {
	id    string
	title string
	desc  string
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type model struct {
	theme Theme
	deps  Deps
	lang  domain.Language

	chat    *usecase.Chat
	profile *usecase.LoadProfile
	auth    *usecase.Authenticate

	scr    screen
	menu   list.Model
	width  int
	height int

	input    textinput.Model
	viewport viewport.Model
	form     form
	busy     bool

	profileView string
	toast       string

	workspaceConfigured bool
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	lang := deps.Language
	if lang == "" {
		lang = domain.LangEnglish
	}

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	in := textinput.New()
	in.CharLimit = 500

	m := model{
		theme:    DefaultTheme(),
		deps:     deps,
		lang:     lang,
		chat:     usecase.NewChat(deps.Sessions, lang, usecase.WithChatLogger(deps.Logger)),
		profile:  usecase.NewLoadProfile(deps.Sessions),
		auth:     usecase.NewAuthenticate(deps.Sessions),
		scr:      screenHome,
		menu:     l,
		input:    in,
		viewport: viewport.New(0, 0),

		workspaceConfigured: deps.WorkspaceInitializer == nil || configExists(deps.WorkspaceRoot),
	}
	m.applyLanguage()
	return m
}

func configExists(root string) bool {
	if root == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(root, workspacefinder.ConfigFile))
	return err == nil
}

func (m *model) applyLanguage() {
	m.input.Placeholder = text(m.lang, "placeholder")
	m.chat.SetLanguage(m.lang)
	m.menu.SetItems(m.menuItems())
}

func (m model) authenticated() bool {
	return m.deps.Sessions != nil && m.deps.Sessions.State() == domain.StateAuthenticated
}

func (m model) menuItems() []list.Item {
	t := func(k string) string { return text(m.lang, k) }

	items := []list.Item{menuItem{itemChat, t("menu_chat"), t("menu_chat_desc")}}
	if m.authenticated() {
		items = append(items,
			menuItem{itemProfile, t("menu_profile"), t("menu_profile_d")},
			menuItem{itemLogout, t("menu_logout"), t("menu_logout_d")},
		)
	} else {
		items = append(items,
			menuItem{itemLogin, t("menu_login"), t("menu_login_d")},
			menuItem{itemRegister, t("menu_register"), t("menu_register_d")},
		)
	}
	items = append(items, menuItem{itemLanguage, t("menu_lang"), t("menu_lang_d")})
	if !m.workspaceConfigured {
		items = append(items, menuItem{itemInit, "Init workspace", "Write healthbot.yaml in " + m.deps.WorkspaceRoot})
	}
	return append(items, menuItem{itemQuit, t("menu_quit"), t("menu_quit_d")})
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-10)
		m.viewport.Width = msg.Width - 8
		m.viewport.Height = msg.Height - 14
		m.input.Width = msg.Width - 12
		return m, nil

	case chatReplyMsg:
		m.busy = false
		if msg.err != nil && !domain.IsKind(msg.err, domain.KindTransport) {
			m.toast = UserMessage(msg.err, m.lang)
		}
		if domain.IsKind(msg.err, domain.KindAuth) {
			m.menu.SetItems(m.menuItems())
		}
		return m, nil

	case profileLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.profileView = ""
			m.toast = UserMessage(msg.err, m.lang)
			m.menu.SetItems(m.menuItems())
			if domain.IsKind(msg.err, domain.KindAuth) {
				m.scr = screenHome
			}
			return m, nil
		}
		m.profileView = renderProfile(m.lang, msg.profile)
		return m, nil

	case authDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.toast = UserMessage(msg.err, m.lang)
			return m, nil
		}
		switch msg.action {
		case actionLogin:
			m.toast = text(m.lang, "signed_in")
		case actionRegister:
			m.toast = text(m.lang, "registered")
		case actionLogout:
			m.toast = text(m.lang, "signed_out")
		}
		m.scr = screenHome
		m.menu.SetItems(m.menuItems())
		return m, nil

	case initWorkspaceDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.toast = UserMessage(msg.err, m.lang)
			return m, nil
		}
		m.workspaceConfigured = true
		m.toast = "Workspace ready: " + msg.root
		m.menu.SetItems(m.menuItems())
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.scr {
		case screenHome:
			return m.updateHome(msg)
		case screenChat:
			return m.updateChat(msg)
		case screenProfile:
			return m.updateProfile(msg)
		case screenLogin, screenRegister:
			return m.updateForm(msg)
		}
	}

	return m, nil
}

func (m model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		it, ok := m.menu.SelectedItem().(menuItem)
		if !ok || m.busy {
			return m, nil
		}
		m.toast = ""
		return m.open(it.id)
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m model) open(id string) (tea.Model, tea.Cmd) {
	label := func(k string) string { return text(m.lang, k) }

	switch id {
	case itemChat:
		m.scr = screenChat
		return m, m.input.Focus()
	case itemProfile:
		m.scr = screenProfile
		m.busy = true
		m.profileView = ""
		return m, cmdLoadProfile(m.profile)
	case itemLogin:
		m.scr = screenLogin
		m.form = newForm(label, formField{key: "username"}, formField{key: "password", secret: true})
		return m, textinput.Blink
	case itemRegister:
		m.scr = screenRegister
		m.form = newForm(label,
			formField{key: "username"},
			formField{key: "email"},
			formField{key: "phone"},
			formField{key: "password", secret: true},
			formField{key: "confirm", secret: true},
		)
		return m, textinput.Blink
	case itemLogout:
		m.busy = true
		return m, cmdLogout(m.auth)
	case itemLanguage:
		if m.lang == domain.LangHindi {
			m.lang = domain.LangEnglish
		} else {
			m.lang = domain.LangHindi
		}
		m.applyLanguage()
		return m, nil
	case itemInit:
		m.busy = true
		return m, cmdInitWorkspaceHere(m.deps, m.deps.WorkspaceRoot)
	case itemQuit:
		return m, tea.Quit
	}
	return m, nil
}

func (m model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.scr = screenHome
		return m, nil
	case "enter":
		if m.busy {
			return m, nil
		}
		in := m.input.Value()
		if err := usecase.ValidateChat(in, m.lang); err != nil {
			m.toast = UserMessage(err, m.lang)
			return m, nil
		}
		m.toast = ""
		m.input.Reset()
		m.busy = true
		return m, cmdSendChat(m.chat, in)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b", "q":
		m.scr = screenHome
		return m, nil
	case "r":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, cmdLoadProfile(m.profile)
	}
	return m, nil
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.scr = screenHome
		return m, nil
	case "tab", "down":
		m.form.move(1)
		return m, nil
	case "shift+tab", "up":
		m.form.move(-1)
		return m, nil
	case "enter":
		if m.busy {
			return m, nil
		}
		if !m.form.onLast() {
			m.form.move(1)
			return m, nil
		}
		m.busy = true
		m.toast = ""
		if m.scr == screenLogin {
			creds := domain.Credentials{
				Username: m.form.value("username"),
				Password: m.form.value("password"),
			}
			return m, cmdLogin(m.auth, creds, m.lang)
		}
		reg := domain.Registration{
			Username: m.form.value("username"),
			Email:    m.form.value("email"),
			Phone:    m.form.value("phone"),
			Password: m.form.value("password"),
			Confirm:  m.form.value("confirm"),
		}
		return m, cmdRegister(m.auth, reg, m.lang)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render(text(m.lang, "title")) + "\n" +
		m.theme.Subtitle.Render(text(m.lang, "subtitle")) + "\n"

	status := text(m.lang, "anonymous")
	if m.authenticated() {
		status = text(m.lang, "signed_in")
		if c, ok := m.deps.Sessions.Claims(); ok && c.Username != "" {
			status += ": " + c.Username
		}
	}
	banner := m.theme.Help.Render(fmt.Sprintf("%s • %s", status, m.deps.APIBaseURL))

	toast := ""
	if m.toast != "" {
		toast = "\n" + m.theme.Toast.Render(m.toast)
	}

	var body, help string
	switch m.scr {
	case screenHome:
		body = m.theme.Card.Render(m.menu.View())
		help = text(m.lang, "help_home")

	case screenChat:
		conv := renderConversation(m.theme, m.lang, m.chat.Messages(), m.busy, m.viewport.Width)
		if m.viewport.Height > 0 {
			vp := m.viewport
			vp.SetContent(conv)
			vp.GotoBottom()
			conv = vp.View()
		}
		body = m.theme.Card.Render(
			m.theme.Title.Render(text(m.lang, "menu_chat")) + "\n\n" + conv + "\n" + m.input.View(),
		)
		help = text(m.lang, "help_chat")

	case screenProfile:
		content := m.profileView
		if m.busy {
			content = text(m.lang, "loading")
		}
		body = m.theme.Card.Render(m.theme.Title.Render(text(m.lang, "menu_profile")) + "\n\n" + content)
		help = text(m.lang, "help_back")

	case screenLogin, screenRegister:
		title := text(m.lang, "menu_login")
		if m.scr == screenRegister {
			title = text(m.lang, "menu_register")
		}
		content := m.form.view()
		if m.busy {
			content += "\n" + text(m.lang, "loading")
		}
		body = m.theme.Card.Render(m.theme.Title.Render(title) + "\n\n" + content)
		help = text(m.lang, "help_form")

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}

	return wrap.Render(header + "\n" + banner + "\n\n" + body + toast + "\n" + m.theme.Help.Render(help))
}
