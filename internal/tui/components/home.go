package components

import (
	"github.com/Veraticus/carepoint/internal/session"
	"github.com/Veraticus/carepoint/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HomeModel is the landing page.
type HomeModel struct {
	sessions *session.Prober
	theme    themes.Theme
	width    int
}

// NewHomeModel creates the landing page.
func NewHomeModel(deps Deps) HomeModel {
	return HomeModel{sessions: deps.Sessions, theme: deps.Theme}
}

// Init returns initial commands.
func (m HomeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "b":
			return m, Navigate(PageBooking)
		case "l":
			if !m.sessions.Authenticated() {
				return m, Navigate(PageLogin)
			}
		}
	}
	return m, nil
}

// View renders the page.
func (m HomeModel) View() string {
	greeting := "Welcome"
	if s := m.sessions.Current(); s != nil && s.Firstname != "" {
		greeting = "Welcome back, " + s.Firstname
	}

	hero := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Advanced Healthcare Management System"),
		m.theme.Subtitle.Render("Streamlining healthcare delivery with cutting-edge technology and compassionate care."),
		"",
		m.theme.Bold.Render(greeting),
	)

	actions := []string{m.theme.Normal.Render("b  Book an appointment")}
	if !m.sessions.Authenticated() {
		actions = append(actions, m.theme.Normal.Render("l  Log in"))
	}
	if m.sessions.CanManage() {
		actions = append(actions, m.theme.Faint.Render("Dashboard and Medicine are in the navbar (Ctrl+N)"))
	}

	style := m.theme.RoundedBox
	if m.width > 4 {
		style = style.Width(min(m.width-4, 80))
	}
	return lipgloss.JoinVertical(lipgloss.Left, style.Render(hero), "", lipgloss.JoinVertical(lipgloss.Left, actions...))
}

// Resize updates the page dimensions.
func (m *HomeModel) Resize(width, _ int) {
	m.width = width
}

// Close releases nothing; the landing page starts no requests.
func (m HomeModel) Close() {}
