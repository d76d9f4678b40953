package components

import (
	"context"

	"github.com/Veraticus/carepoint/internal/auth"
	"github.com/Veraticus/carepoint/internal/common"
	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/tui/themes"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	loginEmail = iota
	loginPassword
)

// loginDoneMsg carries the result of a login request.
type loginDoneMsg struct {
	err  error
	text string
}

// LoginModel is the sign-in page.
type LoginModel struct {
	ctx      context.Context
	cancel   context.CancelFunc
	auth     *auth.Service
	theme    themes.Theme
	spinner  spinner.Model
	errText  string
	form     form
	width    int
	inFlight bool
}

// NewLoginModel creates the login page.
func NewLoginModel(deps Deps) LoginModel {
	ctx, cancel := deps.mount()
	return LoginModel{
		ctx:     ctx,
		cancel:  cancel,
		auth:    auth.NewService(deps.Backend),
		theme:   deps.Theme,
		spinner: newSpinner(deps.Theme),
		form: newForm(0,
			field{label: "Email", placeholder: "you@hospital.org"},
			field{label: "Password", placeholder: "password", password: true},
		),
	}
}

// Init returns initial commands.
func (m LoginModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		if !m.inFlight {
			return m, nil
		}
		m.inFlight = false
		if msg.err != nil {
			m.errText = common.UserMessage(msg.err)
			m.form.setValue(loginPassword, "")
			return m, nil
		}
		return m, tea.Batch(Notify(msg.text), Navigate(PageHome))

	case spinner.TickMsg:
		if m.inFlight {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.inFlight {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.form.next()
			return m, nil
		case "shift+tab", "up":
			m.form.prev()
			return m, nil
		case "enter":
			if m.form.focus == loginEmail {
				m.form.next()
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	creds := model.Credentials{
		Email:    m.form.value(loginEmail),
		Password: m.form.value(loginPassword),
	}
	m.inFlight = true
	m.errText = ""

	svc, ctx := m.auth, m.ctx
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		text, err := svc.Login(ctx, creds)
		return loginDoneMsg{text: text, err: err}
	})
}

// View renders the page.
func (m LoginModel) View() string {
	sections := []string{
		m.theme.Title.Render("Login"),
		m.theme.Subtitle.Render("Enter your email and password to access your account"),
		"",
		m.form.view(m.theme),
		"",
	}

	switch {
	case m.inFlight:
		sections = append(sections, m.spinner.View()+" "+m.theme.StatusPending.Render("Signing in..."))
	case m.errText != "":
		sections = append(sections, m.theme.StatusError.Render(m.errText))
	default:
		sections = append(sections, m.theme.Faint.Render("Enter to sign in · Tab to switch fields"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Resize updates the page dimensions.
func (m *LoginModel) Resize(width, _ int) {
	m.width = width
	for i := range m.form.inputs {
		m.form.inputs[i].Width = min(max(width-4, 10), 48)
	}
}

// Close abandons any request still running.
func (m LoginModel) Close() {
	m.cancel()
}
