package components

import (
	"context"

	"github.com/Veraticus/carepoint/internal/auth"
	"github.com/Veraticus/carepoint/internal/common"
	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/session"
	"github.com/Veraticus/carepoint/internal/tui/themes"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	registerFirstname = iota
	registerLastname
	registerEmail
	registerPassword
	registerRole
)

type registerDoneMsg struct {
	err  error
	text string
}

// RegisterModel is the account creation page. Admins additionally pick the role of
// the new account.
type RegisterModel struct {
	ctx      context.Context
	cancel   context.CancelFunc
	auth     *auth.Service
	sessions *session.Prober
	theme    themes.Theme
	spinner  spinner.Model
	errText  string
	form     form
	role     int
	inFlight bool
}

// NewRegisterModel creates the register page.
func NewRegisterModel(deps Deps) RegisterModel {
	ctx, cancel := deps.mount()
	return RegisterModel{
		ctx:      ctx,
		cancel:   cancel,
		auth:     auth.NewService(deps.Backend),
		sessions: deps.Sessions,
		theme:    deps.Theme,
		spinner:  newSpinner(deps.Theme),
		form: newForm(1,
			field{label: "First name", placeholder: "John"},
			field{label: "Last name", placeholder: "Doe"},
			field{label: "Email", placeholder: "john@example.com"},
			field{label: "Password", placeholder: "at least 6 characters", password: true},
		),
	}
}

// Init returns initial commands.
func (m RegisterModel) Init() tea.Cmd {
	return nil
}

func (m RegisterModel) isAdmin() bool {
	return m.sessions != nil && m.sessions.IsAdmin()
}

// Update handles messages.
func (m RegisterModel) Update(msg tea.Msg) (RegisterModel, tea.Cmd) {
	// The role row only exists for admins, who may lose that status mid-page.
	m.form.extra = 0
	if m.isAdmin() {
		m.form.extra = 1
	}
	if m.form.focus >= m.form.stops() {
		m.form.focusOn(0)
	}

	switch msg := msg.(type) {
	case registerDoneMsg:
		if !m.inFlight {
			return m, nil
		}
		m.inFlight = false
		if msg.err != nil {
			m.errText = common.UserMessage(msg.err)
			return m, nil
		}
		m.form.reset()
		m.role = 0
		return m, tea.Batch(Notify(msg.text), Navigate(PageLogin))

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
		case "left":
			if m.form.focus == registerRole {
				m.role = (m.role + len(model.Roles) - 1) % len(model.Roles)
				return m, nil
			}
		case "right":
			if m.form.focus == registerRole {
				m.role = (m.role + 1) % len(model.Roles)
				return m, nil
			}
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m RegisterModel) submit() (RegisterModel, tea.Cmd) {
	reg := model.Registration{
		Firstname: m.form.value(registerFirstname),
		Lastname:  m.form.value(registerLastname),
		Email:     m.form.value(registerEmail),
		Password:  m.form.value(registerPassword),
	}
	isAdmin := m.isAdmin()
	if isAdmin {
		reg.Role = model.Roles[m.role]
	}
	m.inFlight = true
	m.errText = ""

	svc, ctx := m.auth, m.ctx
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		text, err := svc.Register(ctx, reg, isAdmin)
		return registerDoneMsg{text: text, err: err}
	})
}

// View renders the page.
func (m RegisterModel) View() string {
	sections := []string{
		m.theme.Title.Render("Create an account"),
		m.form.view(m.theme),
	}

	if m.isAdmin() {
		roles := make([]string, len(model.Roles))
		for i, r := range model.Roles {
			roles[i] = string(r)
		}
		label := m.theme.Subtitle.Render("Role")
		if m.form.focus == registerRole {
			label = m.theme.Bold.Render("Role")
		}
		sections = append(sections, label, selector(m.theme, roles, m.role, m.form.focus == registerRole))
	}

	sections = append(sections, "")
	switch {
	case m.inFlight:
		sections = append(sections, m.spinner.View()+" "+m.theme.StatusPending.Render("Creating account..."))
	case m.errText != "":
		sections = append(sections, m.theme.StatusError.Render(m.errText))
	default:
		sections = append(sections, m.theme.Faint.Render("Enter to register · Tab to switch fields"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Resize updates the page dimensions.
func (m *RegisterModel) Resize(width, _ int) {
	for i := range m.form.inputs {
		m.form.inputs[i].Width = min(max(width-4, 10), 48)
	}
}

// Close abandons any request still running.
func (m RegisterModel) Close() {
	m.cancel()
}
