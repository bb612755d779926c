package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "motion_arena/internal/errors"
	repo "motion_arena/internal/repository"
)

func newTestHandler() *AuthUsecaseHandler {
	return NewUserUsecaseHandler(repo.NewMapUserStorage(), repo.NewSessionMapStorage())
}

func TestRegisterAndLogin(t *testing.T) {
	uc := newTestHandler()

	sessionID, err := uc.RegisterUser("alice", "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	userID, err := uc.GetUserIdFromSession(sessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, userID)

	// a login opens a fresh session for the same user
	loginSession, err := uc.LoginUser("alice", "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, sessionID, loginSession)

	sameUser, err := uc.GetUserIdFromSession(loginSession)
	require.NoError(t, err)
	assert.Equal(t, userID, sameUser)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	uc := newTestHandler()

	_, err := uc.RegisterUser("alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, err = uc.RegisterUser("alice", "other@example.com", "s3cret")
	assert.ErrorIs(t, err, errs.ErrUserExists)
}

func TestLoginWrongPassword(t *testing.T) {
	uc := newTestHandler()

	_, err := uc.RegisterUser("alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, err = uc.LoginUser("alice", "not-it")
	assert.ErrorIs(t, err, errs.ErrWrongPassword)

	_, err = uc.LoginUser("nobody", "s3cret")
	assert.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestLogout(t *testing.T) {
	uc := newTestHandler()

	sessionID, err := uc.RegisterUser("alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, uc.LogoutUser(sessionID))

	_, err = uc.GetUserIdFromSession(sessionID)
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)

	assert.ErrorIs(t, uc.LogoutUser(sessionID), errs.ErrSessionNotFound)
}

func TestCheckAuthorized(t *testing.T) {
	users := repo.NewMapUserStorage()
	sessions := repo.NewSessionMapStorage()
	uc := NewUserUsecaseHandler(users, sessions)
	ctx := context.Background()

	sessionID, err := uc.RegisterUser("alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	assert.True(t, uc.CheckAuthorized(ctx, sessionID))
	assert.False(t, uc.CheckAuthorized(ctx, "bogus"))

	// a session pointing at a vanished user record is not authorized
	sessions.StoreSession("stale", "deleted-user")
	assert.False(t, uc.CheckAuthorized(ctx, "stale"))
}

func TestResolveSession(t *testing.T) {
	uc := newTestHandler()
	ctx := context.Background()

	sessionID, err := uc.RegisterUser("alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	u, err := uc.ResolveSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = uc.ResolveSession(ctx, "bogus")
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)
}

func TestPasswordReset(t *testing.T) {
	uc := newTestHandler()

	_, err := uc.RegisterUser("alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	token, err := uc.GenerateResetToken("alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, uc.ResetPassword("alice@example.com", token, "n3w-pass"))

	// old password no longer works, new one does
	_, err = uc.LoginUser("alice", "s3cret")
	assert.ErrorIs(t, err, errs.ErrWrongPassword)
	_, err = uc.LoginUser("alice", "n3w-pass")
	assert.NoError(t, err)

	// the token is single use
	err = uc.ResetPassword("alice@example.com", token, "again")
	assert.ErrorIs(t, err, errs.ErrResetTokenInvalid)
}

func TestPasswordResetBadToken(t *testing.T) {
	uc := newTestHandler()

	_, err := uc.RegisterUser("alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, err = uc.GenerateResetToken("alice@example.com")
	require.NoError(t, err)

	err = uc.ResetPassword("alice@example.com", "wrong-token", "n3w-pass")
	assert.ErrorIs(t, err, errs.ErrResetTokenInvalid)

	_, err = uc.GenerateResetToken("unknown@example.com")
	assert.ErrorIs(t, err, errs.ErrUserNotFound)
}
