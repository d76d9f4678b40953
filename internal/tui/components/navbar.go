package components

import (
	"strings"

	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/session"
	"github.com/Veraticus/carepoint/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// VisiblePages lists the pages reachable for s, in navbar order. Management pages need
// an admin or doctor; login and register are offered while logged out, and admins keep
// register to create staff accounts.
func VisiblePages(s *model.Session) []Page {
	pages := []Page{PageHome}
	if session.CanManage(s) {
		pages = append(pages, PageDashboard, PageMedicines)
	}
	pages = append(pages, PageBooking)
	switch {
	case s == nil:
		pages = append(pages, PageLogin, PageRegister)
	case s.Role == model.RoleAdmin:
		pages = append(pages, PageRegister)
	}
	return pages
}

// Allowed reports whether page is reachable for s.
func Allowed(s *model.Session, page Page) bool {
	for _, p := range VisiblePages(s) {
		if p == page {
			return true
		}
	}
	return false
}

// Navbar renders the brand, one tab per visible page and the account badge.
func Navbar(theme themes.Theme, s *model.Session, active Page, width int) string {
	tabs := []string{theme.Bold.Render("Hospital")}
	for _, p := range VisiblePages(s) {
		if p == active {
			tabs = append(tabs, theme.ActiveTab.Render(p.String()))
		} else {
			tabs = append(tabs, theme.Tab.Render(p.String()))
		}
	}
	left := strings.Join(tabs, " ")

	var right string
	switch {
	case s == nil:
		right = theme.Faint.Render("Not logged in")
	case width > 0 && width < 80:
		right = theme.Avatar.Render(s.Initial())
	default:
		right = theme.Avatar.Render(s.Initial()) + " " + theme.Normal.Render(s.Email) +
			" " + theme.Faint.Render(string(s.Role))
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
