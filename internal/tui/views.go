package tui

import (
	"strings"

	"github.com/Veraticus/carepoint/internal/tui/components"
	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	navbar := components.Navbar(m.theme, m.sessions.Current(), m.page, m.width-4)
	sections := []string{
		navbar,
		lipgloss.NewStyle().Foreground(m.theme.Border).Render(strings.Repeat("─", max(m.width-4, 0))),
		m.renderPage(),
		"",
		m.renderStatus(),
	}

	if m.showHelp {
		m.help.ShowAll = true
		sections = append(sections, "", m.help.View(m.keymap))
	} else {
		sections = append(sections, m.help.ShortHelpView(m.keymap.ShortHelp()))
	}

	return m.wrapWithBorder(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderPage() string {
	switch m.page {
	case components.PageLogin:
		return m.login.View()
	case components.PageRegister:
		return m.register.View()
	case components.PageMedicines:
		return m.medicines.View()
	case components.PageDashboard:
		return m.dashboard.View()
	case components.PageBooking:
		return m.booking.View()
	default:
		return m.home.View()
	}
}

func (m Model) renderStatus() string {
	if m.notice == "" {
		return ""
	}
	if m.noticeErr {
		return m.theme.StatusError.Render("✗ " + m.notice)
	}
	return m.theme.StatusSuccess.Render("✓ " + m.notice)
}

// wrapWithBorder adds a border around the content, sized to the terminal on wide
// screens.
func (m Model) wrapWithBorder(content string) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(0, 1)
	if m.width >= 40 {
		style = style.Width(m.width - 2)
	}
	return style.Render(content)
}
