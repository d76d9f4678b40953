// Package auth validates and submits the login and register forms.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Veraticus/carepoint/internal/common"
	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/service"
)

// Notification texts.
const (
	MsgLoggedIn       = "Login successful!"
	MsgLoginFailed    = "wrong username or password"
	MsgRegistered     = "Registration successful!"
	MsgRegisterFailed = "Registration failed"
)

// fieldMessages replace the validator's wording for the register form.
var fieldMessages = map[string]string{
	"firstname": "First name is required",
	"lastname":  "Last name is required",
	"email":     "Invalid email",
	"password":  "Password must be at least 6 characters",
}

// Service submits login and register forms.
type Service struct {
	accounts service.Accounts
}

// NewService creates an auth service.
func NewService(accounts service.Accounts) *Service {
	return &Service{accounts: accounts}
}

// Login signs in. On success the session cookie is held by the API client and callers
// should probe the session again.
func (s *Service) Login(ctx context.Context, creds model.Credentials) (string, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := common.ValidateStruct(creds); err != nil {
		return "", err
	}

	if _, err := s.accounts.Login(ctx, creds); err != nil {
		slog.Debug("Login rejected", "email", creds.Email, "error", err)
		return "", LoginFailure(err)
	}
	return MsgLoggedIn, nil
}

// LoginFailure gives a failed login the text to show: the server's message when there
// is one, else the stock wrong-credentials text.
func LoginFailure(err error) error {
	var remoteErr *common.RemoteError
	if errors.As(err, &remoteErr) {
		msg := remoteErr.Message
		if msg == "" {
			msg = MsgLoginFailed
		}
		return common.NewUserError(msg, err)
	}
	return err
}

// Register creates an account. Only an admin may choose a role other than USER; such
// registrations go to the privileged endpoint.
func (s *Service) Register(ctx context.Context, reg model.Registration, isAdmin bool) (string, error) {
	reg.Firstname = strings.TrimSpace(reg.Firstname)
	reg.Lastname = strings.TrimSpace(reg.Lastname)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Role == "" || !isAdmin {
		reg.Role = model.RoleUser
	}

	if err := common.ValidateStruct(reg); err != nil {
		var validationErr *common.ValidationError
		if errors.As(err, &validationErr) {
			if msg, ok := fieldMessages[validationErr.Field]; ok {
				validationErr.Reason = msg
			}
		}
		return "", err
	}

	privileged := isAdmin && reg.Role != model.RoleUser
	if _, err := s.accounts.Register(ctx, reg, privileged); err != nil {
		var remoteErr *common.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.Message == "" {
			return "", common.NewUserError(MsgRegisterFailed, err)
		}
		return "", err
	}

	slog.Info("Account registered", "email", reg.Email, "role", reg.Role, "privileged", privileged)
	return MsgRegistered, nil
}
