package user_test

import (
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidosgs/backend/core"
	"github.com/pedidosgs/backend/core/user"
	emailsvc "github.com/pedidosgs/backend/services/email"
	dummydb "github.com/pedidosgs/backend/storage/database/dummy"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func testConfig() *core.Config {
	conf := &core.Config{
		TestMode:         true,
		AppName:          "Pedidos GS",
		DefaultFromEmail: mail.Address{Name: "Pedidos GS", Address: "noreply@localhost"},
		FrontendBaseURL:  "http://localhost:8000",

		SessionExpirationDelta:    12 * time.Hour,
		PasswordResetTimeoutDelta: 2 * time.Hour,
		PasswordMinLength:         6,
	}
	return conf
}

func setup(t *testing.T) (*user.Service, user.Repository) {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)
	emailsvc.ClearSentMessages()

	repo := dummydb.NewUserRepository(db)
	svc := user.NewService(repo, emailsvc.NewConsoleServiceMock(testConfig()), testConfig(), nopLogger{})
	return svc, repo
}

func createUser(t *testing.T, repo user.Repository, name, email, pwd, role string, isActive bool) user.User {
	t.Helper()
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: time.Now().UTC(),
	}
	if pwd != "" {
		require.NoError(t, usr.SetPassword(pwd))
	}
	usr, err := repo.CreateUser(usr)
	require.NoError(t, err)
	return usr
}

func TestService_Authenticate(t *testing.T) {
	svc, repo := setup(t)
	createUser(t, repo, "Colegio Norte", "norte@school.test", "s3cret", user.RoleSchool, true)
	createUser(t, repo, "Colegio Sur", "sur@school.test", "s3cret", user.RoleSchool, false)

	tests := []struct {
		name    string
		email   string
		pwd     string
		wantErr error
	}{
		{name: "ok", email: "norte@school.test", pwd: "s3cret"},
		{name: "email is case-insensitive", email: "  NORTE@School.Test ", pwd: "s3cret"},
		{name: "unknown email", email: "nobody@school.test", pwd: "s3cret", wantErr: user.ErrInvalidCredentials},
		{name: "wrong password", email: "norte@school.test", pwd: "nope", wantErr: user.ErrInvalidCredentials},
		{name: "pending validation", email: "sur@school.test", pwd: "s3cret", wantErr: user.ErrAccountInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(tt.email, tt.pwd)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "norte@school.test", usr.Email)
		})
	}
}

func TestService_Register(t *testing.T) {
	svc, _ := setup(t)

	usr, err := svc.Register(user.NewUser{Name: "Colegio Norte", Email: "norte@school.test", Password: "s3cret"})
	require.NoError(t, err)

	assert.Equal(t, user.RoleSchool, usr.Role)
	assert.False(t, usr.IsActive, "new accounts must wait for admin validation")
	assert.NoError(t, usr.CheckPassword("s3cret"))

	// registration alone must not grant access
	_, err = svc.Authenticate("norte@school.test", "s3cret")
	assert.Equal(t, user.ErrAccountInactive, errors.Cause(err))
}

func TestService_RequestPasswordReset(t *testing.T) {
	svc, repo := setup(t)
	createUser(t, repo, "Colegio Norte", "norte@school.test", "s3cret", user.RoleSchool, true)
	createUser(t, repo, "Admin", "admin@demo.local", "s3cret", user.RoleAdmin, true)

	t.Run("unknown email", func(t *testing.T) {
		assert.Equal(t, user.ErrNotFound, errors.Cause(svc.RequestPasswordReset("nobody@school.test")))
	})

	t.Run("non-school accounts are excluded", func(t *testing.T) {
		assert.Equal(t, user.ErrNotFound, errors.Cause(svc.RequestPasswordReset("admin@demo.local")))
	})

	t.Run("mails a valid link", func(t *testing.T) {
		emailsvc.ClearSentMessages()
		require.NoError(t, svc.RequestPasswordReset("norte@school.test"))

		token := sentResetToken(t)
		assert.Len(t, token, 48)

		tok, err := svc.CheckResetToken(token)
		require.NoError(t, err)
		assert.Equal(t, token, tok.Token)
	})
}

func TestService_ConfirmPasswordReset(t *testing.T) {
	svc, repo := setup(t)
	usr := createUser(t, repo, "Colegio Norte", "norte@school.test", "old-pwd", user.RoleSchool, true)

	require.NoError(t, svc.RequestPasswordReset(usr.Email))
	token := sentResetToken(t)

	t.Run("unknown token", func(t *testing.T) {
		assert.Equal(t, user.ErrTokenInvalid, errors.Cause(svc.ConfirmPasswordReset("bogus", "new-pwd")))
	})

	t.Run("resets and burns the token", func(t *testing.T) {
		require.NoError(t, svc.ConfirmPasswordReset(token, "new-pwd"))

		_, err := svc.Authenticate(usr.Email, "new-pwd")
		assert.NoError(t, err)
		_, err = svc.Authenticate(usr.Email, "old-pwd")
		assert.Equal(t, user.ErrInvalidCredentials, errors.Cause(err))

		// single use
		assert.Equal(t, user.ErrTokenInvalid, errors.Cause(svc.ConfirmPasswordReset(token, "again")))
	})
}

func TestService_CheckResetToken_expired(t *testing.T) {
	svc, repo := setup(t)
	usr := createUser(t, repo, "Colegio Norte", "norte@school.test", "s3cret", user.RoleSchool, true)

	past := time.Now().UTC().Add(-time.Minute)
	tok, err := repo.CreateResetToken(user.ResetToken{
		UserID:    usr.ID,
		Token:     "expired-token",
		ExpiresAt: past,
		CreatedAt: past.Add(-2 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.CheckResetToken(tok.Token)
	assert.Equal(t, user.ErrTokenInvalid, errors.Cause(err))
}

// sentResetToken pulls the token out of the last captured reset email.
func sentResetToken(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, emailsvc.SentMessages)
	body := emailsvc.SentMessages[len(emailsvc.SentMessages)-1].Body

	i := strings.Index(body, "/reset/")
	require.GreaterOrEqual(t, i, 0)
	token := body[i+len("/reset/"):]
	if j := strings.IndexAny(token, "\n \t"); j >= 0 {
		token = token[:j]
	}
	return token
}
