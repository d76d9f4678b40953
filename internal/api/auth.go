package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Veraticus/carepoint/internal/common"
	"github.com/Veraticus/carepoint/internal/model"
)

const (
	pathLogin         = "/login/login"
	pathLogout        = "/logout"
	pathRegister      = "/register"
	pathRegisterAdmin = "/login/register/admin"
)

// identifier accepts ids sent as strings or numbers.
type identifier string

func (id *identifier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = identifier(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid identifier %s", data)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("invalid identifier %s", data)
	}
	*id = identifier(n.String())
	return nil
}

type userPayload struct {
	UserID    identifier `json:"userId"`
	ID        identifier `json:"id"`
	Firstname string     `json:"firstname"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
}

func (u userPayload) session() *model.Session {
	id := u.UserID
	if id == "" {
		id = u.ID
	}
	if id == "" && u.Email == "" && u.Role == "" {
		return nil
	}
	return &model.Session{
		UserID:    string(id),
		Firstname: u.Firstname,
		Email:     u.Email,
		Role:      model.Role(strings.ToUpper(u.Role)),
	}
}

// sessionPayload covers the three session-check shapes: {userId}, {authenticated,
// user} and a bare user object from /me.
type sessionPayload struct {
	Authenticated *bool        `json:"authenticated"`
	User          *userPayload `json:"user"`
	userPayload
}

// CurrentSession asks endpoint who is logged in. A nil session with a nil error
// means the server answered but nobody is authenticated.
func (c *Client) CurrentSession(ctx context.Context, endpoint string) (*model.Session, error) {
	body, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("session check failed: %w", err)
	}
	if isBlank(body) {
		return nil, nil
	}

	var payload sessionPayload
	if err := decodeObject(endpoint, body, &payload); err != nil {
		return nil, err
	}

	if payload.Authenticated != nil && !*payload.Authenticated {
		return nil, nil
	}
	if payload.User != nil {
		return payload.User.session(), nil
	}
	return payload.userPayload.session(), nil
}

// Logout ends the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	if _, _, err := c.post(ctx, pathLogout, nil); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	return nil
}

// Login signs in. The session cookie lands in the client's jar.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.Message, error) {
	body, _, err := c.post(ctx, pathLogin, creds)
	if err != nil {
		var remoteErr *common.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.Status == http.StatusUnauthorized {
			remoteErr.Err = common.ErrInvalidCredentials
		}
		return model.Message{}, fmt.Errorf("login failed: %w", err)
	}
	return decodeMessage(pathLogin, body)
}

// Register creates an account. Privileged registrations go through the admin endpoint.
func (c *Client) Register(ctx context.Context, reg model.Registration, privileged bool) (model.Message, error) {
	path := pathRegister
	if privileged {
		path = pathRegisterAdmin
	}

	body, _, err := c.post(ctx, path, reg)
	if err != nil {
		return model.Message{}, fmt.Errorf("registration failed: %w", err)
	}
	return decodeMessage(path, body)
}

func decodeMessage(path string, body []byte) (model.Message, error) {
	var msg model.Message
	raw := bytes.TrimSpace(body)
	if len(raw) == 0 || raw[0] != '{' {
		// A 2xx with no JSON envelope still means success.
		return msg, nil
	}
	if err := decodeObject(path, raw, &msg); err != nil {
		return model.Message{}, err
	}
	return msg, nil
}
