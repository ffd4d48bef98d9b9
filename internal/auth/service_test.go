package auth

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreauth "nexus/internal/core/auth"
	"nexus/internal/core/cache"
	"nexus/internal/core/database"
	"nexus/internal/domain"
)

func newTestService(t *testing.T) (*Service, context.Context) {
	t.Helper()
	db, err := database.New(database.Opts{
		Driver: "sqlite", DSN: ":memory:",
		MaxOpenConns: 1, MaxIdleConns: 1, LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	jwter := &coreauth.JWTer{Secret: []byte("test-secret"), Issuer: "nexus-test", TTL: time.Hour}
	svc := NewService(db, jwter, cache.NewMemory(), "http://localhost:5173", nil)
	return svc, context.Background()
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, ctx := newTestService(t)

	res, err := svc.SignUp(ctx, "John@Example.COM", "hunter22", "John Doe")
	require.NoError(t, err)
	require.NotNil(t, res.User)
	require.NotNil(t, res.Session)
	assert.Equal(t, "john@example.com", res.User.Email, "email is lowercased before use")
	assert.NotEmpty(t, res.Session.Token)

	// sign in with a differently-cased email
	res2, err := svc.SignIn(ctx, "JOHN@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, res2.User.ID)
}

func TestSignInWrongCredentials(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.SignUp(ctx, "a@example.com", "hunter22", "")
	require.NoError(t, err)

	res, err := svc.SignIn(ctx, "a@example.com", "wrong-password")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err = svc.SignIn(ctx, "nobody@example.com", "whatever")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpDuplicateEmailGetsFriendlyError(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.SignUp(ctx, "dup@example.com", "hunter22", "")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "dup@example.com", "hunter33", "")
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestSignUpValidation(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.SignUp(ctx, "not-an-email", "hunter22", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.SignUp(ctx, "ok@example.com", "abc", "")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestSignUpDerivesNameFromEmail(t *testing.T) {
	svc, ctx := newTestService(t)

	res, err := svc.SignUp(ctx, "ada@example.com", "hunter22", "")
	require.NoError(t, err)
	assert.Equal(t, "ada", res.User.Name)
}

func TestCurrentUserTreatsNoSessionAsNil(t *testing.T) {
	svc, ctx := newTestService(t)

	// empty and garbage tokens are normal nils, not errors
	u, err := svc.CurrentUser(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = svc.CurrentUser(ctx, "not-a-jwt")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestSignOutRevokesSession(t *testing.T) {
	svc, ctx := newTestService(t)

	res, err := svc.SignUp(ctx, "out@example.com", "hunter22", "")
	require.NoError(t, err)

	u, err := svc.CurrentUser(ctx, res.Session.Token)
	require.NoError(t, err)
	require.NotNil(t, u)

	require.NoError(t, svc.SignOut(ctx, res.Session.Token))

	u, err = svc.CurrentUser(ctx, res.Session.Token)
	require.NoError(t, err)
	assert.Nil(t, u, "revoked session reads as signed out")

	// signing out twice is a no-op
	assert.NoError(t, svc.SignOut(ctx, res.Session.Token))
}

func TestPasswordResetFlow(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.SignUp(ctx, "reset@example.com", "oldpassword", "")
	require.NoError(t, err)

	link, err := svc.RequestPasswordReset(ctx, "reset@example.com")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "http://localhost:5173/reset-password?token="))

	u, err := url.Parse(link)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, token, "newpassword"))

	_, err = svc.SignIn(ctx, "reset@example.com", "oldpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	res, err := svc.SignIn(ctx, "reset@example.com", "newpassword")
	require.NoError(t, err)
	assert.NotNil(t, res.User)

	// token is single-use
	assert.ErrorIs(t, svc.ResetPassword(ctx, token, "another-pass"), ErrResetTokenInvalid)
}

func TestPasswordResetUnknownEmailDoesNotLeak(t *testing.T) {
	svc, ctx := newTestService(t)

	link, err := svc.RequestPasswordReset(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, link)
}

func TestUnreachableDatabaseMapsToFriendlyError(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.SignUp(ctx, "pre@example.com", "hunter22", "")
	require.NoError(t, err)

	sqlDB, err := svc.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = svc.SignIn(ctx, "pre@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrUnreachable)

	_, err = svc.SignUp(ctx, "new@example.com", "hunter22", "")
	assert.ErrorIs(t, err, ErrUnreachable)

	_, err = svc.RequestPasswordReset(ctx, "pre@example.com")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestUpdatePassword(t *testing.T) {
	svc, ctx := newTestService(t)

	res, err := svc.SignUp(ctx, "chg@example.com", "oldpassword", "")
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, res.User.ID, "wrong", "newpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.UpdatePassword(ctx, res.User.ID, "oldpassword", "newpassword"))

	_, err = svc.SignIn(ctx, "chg@example.com", "newpassword")
	assert.NoError(t, err)
}
