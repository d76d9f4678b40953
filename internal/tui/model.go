// Package tui is the interactive terminal client. A root model owns the session and
// the navbar and delegates to one page at a time; every state change happens inside
// Update while requests run as commands.
package tui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Veraticus/carepoint/internal/common"
	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/remote"
	"github.com/Veraticus/carepoint/internal/service"
	"github.com/Veraticus/carepoint/internal/session"
	"github.com/Veraticus/carepoint/internal/tui/components"
	"github.com/Veraticus/carepoint/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Model holds the root TUI state.
type Model struct {
	ctx       context.Context
	backend   service.Backend
	sessions  *session.Prober
	probe     *remote.Resource[*model.Session]
	theme     themes.Theme
	help      help.Model
	notice    string
	deps      components.Deps
	keymap    KeyMap
	home      components.HomeModel
	login     components.LoginModel
	register  components.RegisterModel
	medicines components.MedicinesModel
	dashboard components.DashboardModel
	booking   components.BookingModel
	page      components.Page
	width     int
	height    int
	noticeErr bool
	showHelp  bool
	quitting  bool
}

// New creates the root model.
func New(ctx context.Context, opts ...Option) (Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Backend == nil {
		return Model{}, errors.New("tui: a backend is required")
	}
	return newModel(ctx, cfg), nil
}

func newModel(ctx context.Context, cfg Config) Model {
	sessions := session.NewProber(cfg.Backend, cfg.SessionEndpoint)
	m := Model{
		ctx:      ctx,
		backend:  cfg.Backend,
		sessions: sessions,
		probe:    remote.New[*model.Session]("session"),
		theme:    cfg.Theme,
		help:     help.New(),
		keymap:   DefaultKeyMap(),
		width:    cfg.Width,
		height:   cfg.Height,
		deps: components.Deps{
			Ctx:          ctx,
			Backend:      cfg.Backend,
			Sessions:     sessions,
			Now:          cfg.Now,
			Currency:     cfg.Currency,
			Theme:        cfg.Theme,
			Debounce:     cfg.Debounce,
			ExpiringDays: cfg.ExpiringDays,
		},
	}
	m.home = components.NewHomeModel(m.deps)
	m.page = components.PageHome
	if cfg.StartPage != components.PageHome {
		m.mount(cfg.StartPage)
	}
	return m
}

// Init probes the session and starts the first page.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.reprobe(), m.initPage())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKeys(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.handleResize()
		return m, nil

	case remote.Loaded[*model.Session]:
		if m.probe.Accept(msg) {
			m.sessions.Set(m.probe.State().Data)
			if !components.Allowed(m.sessions.Current(), m.page) {
				return m, m.navigate(components.PageHome)
			}
		}
		return m, nil

	case components.NavigateMsg:
		return m, m.navigate(msg.Page)

	case components.NotifyMsg:
		m.notify(msg)
		return m, nil

	case logoutDoneMsg:
		if msg.err != nil {
			m.notice, m.noticeErr = "Logged out locally; the server did not confirm", true
		} else {
			m.notice, m.noticeErr = "Logged out", false
		}
		return m, m.reprobe()
	}

	return m, m.updatePage(msg)
}

// handleGlobalKeys handles keys that work on every page.
func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		m.closePage()
		m.probe.Close()
		return tea.Quit, true
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil, true
	case key.Matches(msg, m.keymap.NextPage):
		return m.navigate(m.step(1)), true
	case key.Matches(msg, m.keymap.PrevPage):
		return m.navigate(m.step(-1)), true
	case key.Matches(msg, m.keymap.Home):
		return m.navigate(components.PageHome), true
	case key.Matches(msg, m.keymap.Logout):
		if !m.sessions.Authenticated() {
			return nil, true
		}
		return m.logout(), true
	case key.Matches(msg, m.keymap.Dismiss):
		// Esc also reaches the page.
		m.notice = ""
	}
	return nil, false
}

// step returns the visible page offset from the current one, wrapping around.
func (m Model) step(offset int) components.Page {
	pages := components.VisiblePages(m.sessions.Current())
	for i, p := range pages {
		if p == m.page {
			return pages[(i+offset+len(pages))%len(pages)]
		}
	}
	return components.PageHome
}

// navigate closes the current page, mounts page and probes the session again so the
// navbar and role gates reflect the server.
func (m *Model) navigate(page components.Page) tea.Cmd {
	if page != components.PageHome && !components.Allowed(m.sessions.Current(), page) {
		slog.Debug("Navigation refused", "page", page.String())
		page = components.PageHome
	}
	m.closePage()
	m.mount(page)
	return tea.Batch(m.reprobe(), m.initPage())
}

func (m *Model) reprobe() tea.Cmd {
	sessions := m.sessions
	return m.probe.Load(m.ctx, func(ctx context.Context) (*model.Session, error) {
		return sessions.Lookup(ctx), nil
	})
}

func (m *Model) logout() tea.Cmd {
	m.sessions.Clear()
	m.probe.Close()
	backend, ctx := m.backend, m.ctx
	logout := func() tea.Msg {
		err := backend.Logout(ctx)
		if err != nil {
			slog.Warn("Logout request failed", "error", err)
		}
		return logoutDoneMsg{err: err}
	}
	// The probe waits for logoutDoneMsg so it cannot see the old session.
	m.closePage()
	m.mount(components.PageLogin)
	return tea.Batch(logout, m.initPage())
}

// notify shows a page's outcome. Being logged out is not an error worth showing; it
// only clears the held session.
func (m *Model) notify(msg components.NotifyMsg) {
	if msg.Err != nil {
		if common.IsAuthRequired(msg.Err) {
			m.sessions.Clear()
			return
		}
		m.notice, m.noticeErr = common.UserMessage(msg.Err), true
		return
	}
	m.notice, m.noticeErr = msg.Text, false
}

func (m *Model) mount(page components.Page) {
	m.page = page
	switch page {
	case components.PageLogin:
		m.login = components.NewLoginModel(m.deps)
	case components.PageRegister:
		m.register = components.NewRegisterModel(m.deps)
	case components.PageMedicines:
		m.medicines = components.NewMedicinesModel(m.deps)
	case components.PageDashboard:
		m.dashboard = components.NewDashboardModel(m.deps)
	case components.PageBooking:
		m.booking = components.NewBookingModel(m.deps)
	default:
		m.page = components.PageHome
		m.home = components.NewHomeModel(m.deps)
	}
	m.handleResize()
}

func (m Model) initPage() tea.Cmd {
	switch m.page {
	case components.PageLogin:
		return m.login.Init()
	case components.PageRegister:
		return m.register.Init()
	case components.PageMedicines:
		return m.medicines.Init()
	case components.PageDashboard:
		return m.dashboard.Init()
	case components.PageBooking:
		return m.booking.Init()
	default:
		return m.home.Init()
	}
}

func (m *Model) closePage() {
	switch m.page {
	case components.PageLogin:
		m.login.Close()
	case components.PageRegister:
		m.register.Close()
	case components.PageMedicines:
		m.medicines.Close()
	case components.PageDashboard:
		m.dashboard.Close()
	case components.PageBooking:
		m.booking.Close()
	default:
		m.home.Close()
	}
}

// updatePage delegates msg to the active page.
func (m *Model) updatePage(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.page {
	case components.PageLogin:
		m.login, cmd = m.login.Update(msg)
	case components.PageRegister:
		m.register, cmd = m.register.Update(msg)
	case components.PageMedicines:
		m.medicines, cmd = m.medicines.Update(msg)
	case components.PageDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case components.PageBooking:
		m.booking, cmd = m.booking.Update(msg)
	default:
		m.home, cmd = m.home.Update(msg)
	}
	return cmd
}

// handleResize adjusts the active page when the terminal resizes.
func (m *Model) handleResize() {
	// Navbar (1) + status line (1) + borders (2) + padding (2)
	width, height := m.width-4, m.height-6
	switch m.page {
	case components.PageLogin:
		m.login.Resize(width, height)
	case components.PageRegister:
		m.register.Resize(width, height)
	case components.PageMedicines:
		m.medicines.Resize(width, height)
	case components.PageDashboard:
		m.dashboard.Resize(width, height)
	case components.PageBooking:
		m.booking.Resize(width, height)
	default:
		m.home.Resize(width, height)
	}
}
