package tui

import (
	"time"

	"github.com/Veraticus/carepoint/internal/remote"
	"github.com/Veraticus/carepoint/internal/service"
	"github.com/Veraticus/carepoint/internal/session"
	"github.com/Veraticus/carepoint/internal/tui/components"
	"github.com/Veraticus/carepoint/internal/tui/themes"
	"github.com/Veraticus/carepoint/internal/tui/viewmodel"
)

// Config holds TUI configuration.
type Config struct {
	Backend         service.Backend
	Now             func() time.Time
	Theme           themes.Theme
	Currency        viewmodel.Currency
	SessionEndpoint string
	Debounce        time.Duration
	ExpiringDays    int
	StartPage       components.Page
	Width           int
	Height          int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:           themes.Default,
		Currency:        viewmodel.DefaultCurrency,
		SessionEndpoint: session.DefaultEndpoint,
		Debounce:        remote.DefaultDebounce,
		ExpiringDays:    viewmodel.DefaultExpiringDays,
		StartPage:       components.PageHome,
		Now:             time.Now,
		Width:           100,
		Height:          30,
	}
}

// WithBackend sets the remote API.
func WithBackend(backend service.Backend) Option {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithCurrency sets how money is displayed.
func WithCurrency(currency viewmodel.Currency) Option {
	return func(c *Config) {
		c.Currency = currency
	}
}

// WithSessionEndpoint sets the path probed for the current session.
func WithSessionEndpoint(endpoint string) Option {
	return func(c *Config) {
		c.SessionEndpoint = endpoint
	}
}

// WithDebounce sets the quiet period before a medicine search runs.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.Debounce = d
	}
}

// WithExpiringDays sets the expiry banner window.
func WithExpiringDays(days int) Option {
	return func(c *Config) {
		c.ExpiringDays = days
	}
}

// WithClock replaces the wall clock used for expiry dates.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// WithStartPage sets the first page shown.
func WithStartPage(page components.Page) Option {
	return func(c *Config) {
		c.StartPage = page
	}
}
