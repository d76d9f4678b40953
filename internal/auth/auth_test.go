package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/Veraticus/carepoint/internal/api"
	"github.com/Veraticus/carepoint/internal/common"
	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registration struct {
	reg        model.Registration
	privileged bool
}

type stubAccounts struct {
	err           error
	logins        []model.Credentials
	registrations []registration
}

func (s *stubAccounts) Login(_ context.Context, creds model.Credentials) (model.Message, error) {
	s.logins = append(s.logins, creds)
	return model.Message{Message: "ok"}, s.err
}

func (s *stubAccounts) Register(_ context.Context, reg model.Registration, privileged bool) (model.Message, error) {
	s.registrations = append(s.registrations, registration{reg: reg, privileged: privileged})
	return model.Message{}, s.err
}

func validRegistration() model.Registration {
	return model.Registration{Firstname: "Ana", Lastname: "Ruiz", Email: "ana@example.com", Password: "secret1"}
}

func TestLoginValidation(t *testing.T) {
	tests := []struct {
		name      string
		creds     model.Credentials
		wantField string
	}{
		{name: "missing email", creds: model.Credentials{Password: "x"}, wantField: "email"},
		{name: "bad email", creds: model.Credentials{Email: "not-an-email", Password: "x"}, wantField: "email"},
		{name: "missing password", creds: model.Credentials{Email: "a@example.com"}, wantField: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := &stubAccounts{}
			_, err := NewService(accounts).Login(context.Background(), tt.creds)

			var validationErr *common.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Field)
			assert.Empty(t, accounts.logins)
		})
	}
}

func TestLoginFailureMessage(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{
			name: "server error text",
			err:  &common.RemoteError{Status: http.StatusUnauthorized, Message: "Invalid email or password", Err: common.ErrInvalidCredentials},
			want: "Invalid email or password",
		},
		{
			name: "no server text",
			err:  &common.RemoteError{Status: http.StatusUnauthorized, Err: common.ErrInvalidCredentials},
			want: MsgLoginFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(&stubAccounts{err: tt.err}).Login(context.Background(), model.Credentials{Email: "a@example.com", Password: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.want, common.UserMessage(err))
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Registration)
		wantMsg string
	}{
		{name: "short first name", mutate: func(r *model.Registration) { r.Firstname = "A" }, wantMsg: "firstname: First name is required"},
		{name: "short last name", mutate: func(r *model.Registration) { r.Lastname = "" }, wantMsg: "lastname: Last name is required"},
		{name: "bad email", mutate: func(r *model.Registration) { r.Email = "ana" }, wantMsg: "email: Invalid email"},
		{name: "short password", mutate: func(r *model.Registration) { r.Password = "12345" }, wantMsg: "password: Password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := &stubAccounts{}
			reg := validRegistration()
			tt.mutate(&reg)

			_, err := NewService(accounts).Register(context.Background(), reg, false)
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, common.UserMessage(err))
			assert.Empty(t, accounts.registrations)
		})
	}
}

func TestRegisterRoleAndEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		role           model.Role
		isAdmin        bool
		wantRole       model.Role
		wantPrivileged bool
	}{
		{name: "anonymous defaults to user", wantRole: model.RoleUser},
		{name: "non admin cannot pick role", role: model.RoleDoctor, wantRole: model.RoleUser},
		{name: "admin registering a user", role: model.RoleUser, isAdmin: true, wantRole: model.RoleUser},
		{name: "admin registering a doctor", role: model.RoleDoctor, isAdmin: true, wantRole: model.RoleDoctor, wantPrivileged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := &stubAccounts{}
			reg := validRegistration()
			reg.Role = tt.role

			msg, err := NewService(accounts).Register(context.Background(), reg, tt.isAdmin)
			require.NoError(t, err)
			assert.Equal(t, MsgRegistered, msg)

			require.Len(t, accounts.registrations, 1)
			got := accounts.registrations[0]
			assert.Equal(t, tt.wantRole, got.reg.Role)
			assert.Equal(t, tt.wantPrivileged, got.privileged)
		})
	}
}

func TestRegisterRejectedWithoutMessage(t *testing.T) {
	accounts := &stubAccounts{err: &common.RemoteError{Status: http.StatusBadRequest}}
	_, err := NewService(accounts).Register(context.Background(), validRegistration(), false)
	require.Error(t, err)
	assert.Equal(t, MsgRegisterFailed, common.UserMessage(err))
}

func TestLoginAndRegisterAgainstServer(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client, err := api.NewClient(api.Config{BaseURL: fake.URL()})
	require.NoError(t, err)
	svc := NewService(client)
	ctx := context.Background()

	msg, err := svc.Register(ctx, validRegistration(), false)
	require.NoError(t, err)
	assert.Equal(t, MsgRegistered, msg)

	_, err = svc.Login(ctx, model.Credentials{Email: "ana@example.com", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", common.UserMessage(err))

	msg, err = svc.Login(ctx, model.Credentials{Email: " ana@example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, MsgLoggedIn, msg)

	s, err := client.CurrentSession(ctx, "/auth/status")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, model.RoleUser, s.Role)
}
