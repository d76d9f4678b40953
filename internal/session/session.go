// Package session determines who is logged in. A probe never fails loudly: any problem
// reaching or understanding the session endpoint simply means "no session".
package session

import (
	"context"
	"log/slog"

	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/service"
)

// DefaultEndpoint is the session-check path used when none is configured.
const DefaultEndpoint = "/auth/status"

// Prober probes, holds and ends the current session for one page.
type Prober struct {
	sessions service.Sessions
	current  *model.Session
	endpoint string
}

// NewProber creates a prober for endpoint. An empty endpoint uses DefaultEndpoint.
func NewProber(sessions service.Sessions, endpoint string) *Prober {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Prober{sessions: sessions, endpoint: endpoint}
}

// Probe asks the server who is logged in and remembers the answer. Failures of any
// kind are logged at debug level and yield nil.
func (p *Prober) Probe(ctx context.Context) *model.Session {
	p.current = p.Lookup(ctx)
	return p.current
}

// Lookup performs the probe without touching the held session, so it can run off the
// UI loop. Its result is applied with Set.
func (p *Prober) Lookup(ctx context.Context) *model.Session {
	s, err := p.sessions.CurrentSession(ctx, p.endpoint)
	if err != nil {
		slog.Debug("Session probe found no session", "endpoint", p.endpoint, "error", err)
		return nil
	}
	if s == nil {
		slog.Debug("Session probe: not authenticated", "endpoint", p.endpoint)
	}
	return s
}

// Set records a session obtained elsewhere, such as a probe run in a command.
func (p *Prober) Set(s *model.Session) {
	p.current = s
}

// Current returns the last probed session, or nil.
func (p *Prober) Current() *model.Session {
	return p.current
}

// Logout ends the server session. The local session is cleared even when the request
// fails.
func (p *Prober) Logout(ctx context.Context) error {
	p.current = nil
	if err := p.sessions.Logout(ctx); err != nil {
		slog.Warn("Logout request failed", "error", err)
		return err
	}
	return nil
}

// Clear forgets the session without contacting the server.
func (p *Prober) Clear() {
	p.current = nil
}

// Authenticated reports whether a session is held.
func (p *Prober) Authenticated() bool {
	return p.current != nil
}

// CanManage reports whether the user may see the dashboard and medicine pages.
func (p *Prober) CanManage() bool {
	return CanManage(p.current)
}

// IsAdmin reports whether the user may register privileged accounts.
func (p *Prober) IsAdmin() bool {
	return p.current != nil && p.current.Role == model.RoleAdmin
}

// CanBook reports whether the user may book an appointment.
func (p *Prober) CanBook() bool {
	return p.current != nil && p.current.UserID != ""
}

// CanManage is the role gate for management pages.
func CanManage(s *model.Session) bool {
	if s == nil {
		return false
	}
	return s.Role == model.RoleAdmin || s.Role == model.RoleDoctor
}
