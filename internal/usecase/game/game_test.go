package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motion_arena/internal/domain/user"
	errs "motion_arena/internal/errors"
	repo "motion_arena/internal/repository"
	"motion_arena/internal/statuses"
)

func newTestUseCase() (*GameUseCase, *repo.MapUserStorage) {
	users := repo.NewMapUserStorage()
	users.Put(user.User{ID: "user-a", Username: "alice"})
	users.Put(user.User{ID: "user-b", Username: "bob"})
	return NewGameUseCase(repo.NewMapGameStorage(users), 100), users
}

func TestCreateSession(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	s, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)

	assert.Equal(t, statuses.StatusWaiting, s.Status)
	assert.Equal(t, "user-a", s.Player1ID)
	assert.Empty(t, s.Player2ID)
	assert.False(t, s.IsFull())
	assert.Zero(t, s.Player1Score)
	assert.Zero(t, s.Player2Score)
	assert.Nil(t, s.StartedAt)
}

func TestJoinSessionActivates(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	s, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)

	joined, err := uc.JoinSession(ctx, s.ID, "user-b")
	require.NoError(t, err)

	assert.Equal(t, statuses.StatusActive, joined.Status)
	assert.Equal(t, "user-b", joined.Player2ID)
	assert.True(t, joined.IsFull())
	assert.NotNil(t, joined.StartedAt)
}

func TestJoinSessionNotJoinable(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	s, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)

	// creator cannot take the second seat
	_, err = uc.JoinSession(ctx, s.ID, "user-a")
	assert.ErrorIs(t, err, errs.ErrSessionNotJoinable)

	_, err = uc.JoinSession(ctx, s.ID, "user-b")
	require.NoError(t, err)

	// a full active session rejects further joins and stays unchanged
	_, err = uc.JoinSession(ctx, s.ID, "user-c")
	assert.ErrorIs(t, err, errs.ErrSessionNotJoinable)

	got, err := uc.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, statuses.StatusActive, got.Status)
	assert.Equal(t, "user-b", got.Player2ID)

	// completed sessions are not joinable either
	_, err = uc.EndSession(ctx, s.ID, "")
	require.NoError(t, err)
	_, err = uc.JoinSession(ctx, s.ID, "user-c")
	assert.ErrorIs(t, err, errs.ErrSessionNotJoinable)
}

func TestJoinSessionNotFound(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.JoinSession(context.Background(), "missing", "user-b")
	assert.ErrorIs(t, err, errs.ErrGameNotFound)
}

func TestUpdateScoreInvalidPlayer(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	s, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)
	_, err = uc.JoinSession(ctx, s.ID, "user-b")
	require.NoError(t, err)

	_, err = uc.UpdateScore(ctx, s.ID, 3, 7)
	assert.ErrorIs(t, err, errs.ErrInvalidPlayer)

	_, err = uc.UpdateScore(ctx, s.ID, 0, 7)
	assert.ErrorIs(t, err, errs.ErrInvalidPlayer)
}

func TestEndSessionHigherScoreWins(t *testing.T) {
	uc, users := newTestUseCase()
	ctx := context.Background()

	s, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)
	_, err = uc.JoinSession(ctx, s.ID, "user-b")
	require.NoError(t, err)

	_, err = uc.UpdateScore(ctx, s.ID, 1, 10)
	require.NoError(t, err)
	_, err = uc.UpdateScore(ctx, s.ID, 2, 5)
	require.NoError(t, err)

	ended, err := uc.EndSession(ctx, s.ID, "")
	require.NoError(t, err)

	assert.Equal(t, statuses.StatusCompleted, ended.Status)
	assert.Equal(t, "user-a", ended.WinnerID)
	assert.NotNil(t, ended.EndedAt)

	a, _ := users.GetUserByID("user-a")
	b, _ := users.GetUserByID("user-b")
	assert.Equal(t, 1, a.Statistic.Wins)
	assert.Equal(t, 0, a.Statistic.Losses)
	assert.Equal(t, 0, a.Statistic.Draws)
	assert.Equal(t, 1, b.Statistic.Losses)
	assert.Equal(t, 0, b.Statistic.Wins)
	assert.Equal(t, 0, b.Statistic.Draws)
}

func TestEndSessionDraw(t *testing.T) {
	uc, users := newTestUseCase()
	ctx := context.Background()

	s, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)
	_, err = uc.JoinSession(ctx, s.ID, "user-b")
	require.NoError(t, err)

	_, err = uc.UpdateScore(ctx, s.ID, 1, 4)
	require.NoError(t, err)
	_, err = uc.UpdateScore(ctx, s.ID, 2, 4)
	require.NoError(t, err)

	ended, err := uc.EndSession(ctx, s.ID, "")
	require.NoError(t, err)

	assert.Empty(t, ended.WinnerID)

	a, _ := users.GetUserByID("user-a")
	b, _ := users.GetUserByID("user-b")
	assert.Equal(t, 1, a.Statistic.Draws)
	assert.Equal(t, 1, b.Statistic.Draws)
	assert.Zero(t, a.Statistic.Wins+a.Statistic.Losses)
	assert.Zero(t, b.Statistic.Wins+b.Statistic.Losses)
}

func TestEndSessionExplicitWinner(t *testing.T) {
	uc, users := newTestUseCase()
	ctx := context.Background()

	s, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)
	_, err = uc.JoinSession(ctx, s.ID, "user-b")
	require.NoError(t, err)

	// explicit winner beats the score comparison
	_, err = uc.UpdateScore(ctx, s.ID, 1, 10)
	require.NoError(t, err)

	ended, err := uc.EndSession(ctx, s.ID, "user-b")
	require.NoError(t, err)
	assert.Equal(t, "user-b", ended.WinnerID)

	b, _ := users.GetUserByID("user-b")
	assert.Equal(t, 1, b.Statistic.Wins)
}

func TestEndSessionOnlyFromActive(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	s, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)

	_, err = uc.EndSession(ctx, s.ID, "")
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)

	_, err = uc.JoinSession(ctx, s.ID, "user-b")
	require.NoError(t, err)
	_, err = uc.EndSession(ctx, s.ID, "")
	require.NoError(t, err)

	// second end must fail, the terminal transition happens once
	_, err = uc.EndSession(ctx, s.ID, "")
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestCancelSession(t *testing.T) {
	uc, users := newTestUseCase()
	ctx := context.Background()

	s, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)

	cancelled, err := uc.CancelSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, statuses.StatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.EndedAt)

	a, _ := users.GetUserByID("user-a")
	assert.Zero(t, a.Statistic.Wins+a.Statistic.Losses+a.Statistic.Draws)

	_, err = uc.CancelSession(ctx, s.ID)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestRoundLifecycle(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	s, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)
	_, err = uc.JoinSession(ctx, s.ID, "user-b")
	require.NoError(t, err)

	round, err := uc.StartRound(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, round.RoundNumber)
	assert.Equal(t, statuses.StatusActive, round.Status)
	assert.Equal(t, 100, round.Player1Health)
	assert.Equal(t, 100, round.Player2Health)

	ended, err := uc.EndRound(ctx, s.ID, round.RoundNumber, "user-a")
	require.NoError(t, err)
	assert.Equal(t, statuses.StatusCompleted, ended.Status)
	assert.Equal(t, "user-a", ended.WinnerID)

	// round winner earns exactly one session point
	got, err := uc.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Player1Score)
	assert.Equal(t, 0, got.Player2Score)

	// next round number is monotonic
	second, err := uc.StartRound(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.RoundNumber)

	// ending a completed round again is rejected
	_, err = uc.EndRound(ctx, s.ID, round.RoundNumber, "user-a")
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestEndRoundAfterCancelRejected(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	s, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)
	_, err = uc.JoinSession(ctx, s.ID, "user-b")
	require.NoError(t, err)

	round, err := uc.StartRound(ctx, s.ID)
	require.NoError(t, err)

	_, err = uc.CancelSession(ctx, s.ID)
	require.NoError(t, err)

	// a round orphaned by the cancel cannot be ended, the cancelled
	// session's score must stay untouched
	_, err = uc.EndRound(ctx, s.ID, round.RoundNumber, "user-a")
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)

	got, err := uc.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Player1Score)
	assert.Zero(t, got.Player2Score)
}

func TestTerminalSessionReleasesLock(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	ended, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)
	_, err = uc.JoinSession(ctx, ended.ID, "user-b")
	require.NoError(t, err)
	_, err = uc.EndSession(ctx, ended.ID, "")
	require.NoError(t, err)

	cancelled, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)
	_, err = uc.CancelSession(ctx, cancelled.ID)
	require.NoError(t, err)

	uc.locksMu.Lock()
	defer uc.locksMu.Unlock()
	assert.NotContains(t, uc.locks, ended.ID)
	assert.NotContains(t, uc.locks, cancelled.ID)
}

func TestSessionDuration(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	s, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)

	// never started
	d, err := uc.SessionDuration(ctx, s.ID)
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = uc.JoinSession(ctx, s.ID, "user-b")
	require.NoError(t, err)

	d, err = uc.SessionDuration(ctx, s.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, d, 0.0)

	_, err = uc.SessionDuration(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrGameNotFound)
}

func TestEndRoundUnknownWinnerRejected(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	s, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)
	_, err = uc.JoinSession(ctx, s.ID, "user-b")
	require.NoError(t, err)

	round, err := uc.StartRound(ctx, s.ID)
	require.NoError(t, err)

	_, err = uc.EndRound(ctx, s.ID, round.RoundNumber, "user-z")
	assert.ErrorIs(t, err, errs.ErrInvalidPlayer)
}

func TestStartRoundRequiresActiveSession(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	s, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)

	_, err = uc.StartRound(ctx, s.ID)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

// Full match flow: create, join, score, end without explicit winner.
func TestMatchScenario(t *testing.T) {
	uc, users := newTestUseCase()
	ctx := context.Background()

	s, err := uc.CreateSession(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, statuses.StatusWaiting, s.Status)

	joined, err := uc.JoinSession(ctx, s.ID, "user-b")
	require.NoError(t, err)
	assert.Equal(t, statuses.StatusActive, joined.Status)
	assert.NotNil(t, joined.StartedAt)

	_, err = uc.UpdateScore(ctx, s.ID, 1, 5)
	require.NoError(t, err)
	_, err = uc.UpdateScore(ctx, s.ID, 2, 3)
	require.NoError(t, err)

	ended, err := uc.EndSession(ctx, s.ID, "")
	require.NoError(t, err)
	assert.Equal(t, statuses.StatusCompleted, ended.Status)
	assert.Equal(t, "user-a", ended.WinnerID)

	a, _ := users.GetUserByID("user-a")
	b, _ := users.GetUserByID("user-b")
	assert.Equal(t, 1, a.Statistic.Wins)
	assert.Equal(t, 1, b.Statistic.Losses)
}
