package game

import (
	"context"
	"sync"
	"time"

	"motion_arena/internal/domain/session"
	errs "motion_arena/internal/errors"
	"motion_arena/internal/statuses"
)

type GameStore interface {
	CreateSession(ctx context.Context, s session.GameSession) (session.GameSession, error)
	GetSessionByID(ctx context.Context, id string) (session.GameSession, error)
	UpdateSession(ctx context.Context, s session.GameSession) error
	CompleteSession(ctx context.Context, s session.GameSession, result session.MatchResult) error
	HasUserActiveSession(ctx context.Context, userID string) (bool, error)

	CreateRound(ctx context.Context, r session.GameRound) (session.GameRound, error)
	GetRound(ctx context.Context, sessionID string, roundNumber int) (session.GameRound, error)
	UpdateRound(ctx context.Context, r session.GameRound) error
	NextRoundNumber(ctx context.Context, sessionID string) (int, error)
	ListRounds(ctx context.Context, sessionID string) ([]session.GameRound, error)
}

// GameUseCase owns the session state machine. All mutations of one
// session id run under its keyed mutex, concurrent join/updateScore/end
// against the same session never interleave.
type GameUseCase struct {
	store GameStore

	roundStartHealth int

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewGameUseCase(store GameStore, roundStartHealth int) *GameUseCase {
	if roundStartHealth <= 0 {
		roundStartHealth = 100
	}
	return &GameUseCase{
		store:            store,
		roundStartHealth: roundStartHealth,
		locks:            make(map[string]*sync.Mutex),
	}
}

func (g *GameUseCase) sessionLock(id string) *sync.Mutex {
	g.locksMu.Lock()
	defer g.locksMu.Unlock()
	mu, ok := g.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		g.locks[id] = mu
	}
	return mu
}

// dropSessionLock prunes the lock of a session that reached a terminal
// state. A racer that grabs a fresh mutex afterwards still fails the
// status checks, the session never leaves terminal.
func (g *GameUseCase) dropSessionLock(id string) {
	g.locksMu.Lock()
	defer g.locksMu.Unlock()
	delete(g.locks, id)
}

func (g *GameUseCase) CreateSession(ctx context.Context, player1ID string) (session.GameSession, error) {
	newSession := session.GameSession{
		Player1ID: player1ID,
		Status:    statuses.StatusWaiting,
		CreatedAt: time.Now(),
	}
	return g.store.CreateSession(ctx, newSession)
}

// JoinSession fills the second seat and activates the session. Only a
// waiting, non-full session is joinable.
func (g *GameUseCase) JoinSession(ctx context.Context, sessionID, player2ID string) (session.GameSession, error) {
	mu := g.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	s, err := g.store.GetSessionByID(ctx, sessionID)
	if err != nil {
		return session.GameSession{}, err
	}

	if s.Status != statuses.StatusWaiting || s.IsFull() {
		return session.GameSession{}, errs.ErrSessionNotJoinable
	}
	if s.Player1ID == player2ID {
		return session.GameSession{}, errs.ErrSessionNotJoinable
	}

	now := time.Now()
	s.Player2ID = player2ID
	s.Status = statuses.StatusActive
	s.StartedAt = &now

	if err := g.store.UpdateSession(ctx, s); err != nil {
		return session.GameSession{}, err
	}
	return s, nil
}

func (g *GameUseCase) UpdateScore(ctx context.Context, sessionID string, player int, score int) (session.GameSession, error) {
	if player != 1 && player != 2 {
		return session.GameSession{}, errs.ErrInvalidPlayer
	}

	mu := g.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	s, err := g.store.GetSessionByID(ctx, sessionID)
	if err != nil {
		return session.GameSession{}, err
	}
	if s.IsTerminal() {
		return session.GameSession{}, errs.ErrInvalidTransition
	}

	if player == 1 {
		s.Player1Score = score
	} else {
		s.Player2Score = score
	}

	if err := g.store.UpdateSession(ctx, s); err != nil {
		return session.GameSession{}, err
	}
	return s, nil
}

// EndSession completes an active session. With no explicit winner the
// higher score wins, equal scores make a draw and leave the winner
// unset. Player stats move together with the terminal write.
func (g *GameUseCase) EndSession(ctx context.Context, sessionID string, winnerID string) (session.GameSession, error) {
	mu := g.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	s, err := g.store.GetSessionByID(ctx, sessionID)
	if err != nil {
		return session.GameSession{}, err
	}
	if s.Status != statuses.StatusActive {
		return session.GameSession{}, errs.ErrInvalidTransition
	}

	if winnerID == "" {
		if s.Player1Score > s.Player2Score {
			winnerID = s.Player1ID
		} else if s.Player2Score > s.Player1Score {
			winnerID = s.Player2ID
		}
	}

	var result session.MatchResult
	switch winnerID {
	case "":
		result = session.MatchResult{Draw: true}
	case s.Player1ID:
		result = session.MatchResult{WinnerID: s.Player1ID, LoserID: s.Player2ID}
	case s.Player2ID:
		result = session.MatchResult{WinnerID: s.Player2ID, LoserID: s.Player1ID}
	default:
		return session.GameSession{}, errs.ErrInvalidPlayer
	}

	now := time.Now()
	s.Status = statuses.StatusCompleted
	s.EndedAt = &now
	s.WinnerID = winnerID

	if err := g.store.CompleteSession(ctx, s, result); err != nil {
		return session.GameSession{}, err
	}

	g.dropSessionLock(sessionID)
	return s, nil
}

// CancelSession aborts a waiting or active session without any stat
// side effects.
func (g *GameUseCase) CancelSession(ctx context.Context, sessionID string) (session.GameSession, error) {
	mu := g.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	s, err := g.store.GetSessionByID(ctx, sessionID)
	if err != nil {
		return session.GameSession{}, err
	}
	if s.IsTerminal() {
		return session.GameSession{}, errs.ErrInvalidTransition
	}

	now := time.Now()
	s.Status = statuses.StatusCancelled
	s.EndedAt = &now

	if err := g.store.UpdateSession(ctx, s); err != nil {
		return session.GameSession{}, err
	}

	g.dropSessionLock(sessionID)
	return s, nil
}

// StartRound opens the next round of an active session. Round numbers
// are monotonic within the session.
func (g *GameUseCase) StartRound(ctx context.Context, sessionID string) (session.GameRound, error) {
	mu := g.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	s, err := g.store.GetSessionByID(ctx, sessionID)
	if err != nil {
		return session.GameRound{}, err
	}
	if s.Status != statuses.StatusActive {
		return session.GameRound{}, errs.ErrInvalidTransition
	}

	number, err := g.store.NextRoundNumber(ctx, sessionID)
	if err != nil {
		return session.GameRound{}, err
	}

	now := time.Now()
	round := session.GameRound{
		SessionID:     sessionID,
		RoundNumber:   number,
		Status:        statuses.StatusActive,
		StartedAt:     &now,
		Player1Health: g.roundStartHealth,
		Player2Health: g.roundStartHealth,
	}
	return g.store.CreateRound(ctx, round)
}

// EndRound completes an active round. A round winner earns one point
// on the session score, the round score itself is not carried over.
func (g *GameUseCase) EndRound(ctx context.Context, sessionID string, roundNumber int, winnerID string) (session.GameRound, error) {
	mu := g.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	s, err := g.store.GetSessionByID(ctx, sessionID)
	if err != nil {
		return session.GameRound{}, err
	}
	if s.IsTerminal() {
		return session.GameRound{}, errs.ErrInvalidTransition
	}

	round, err := g.store.GetRound(ctx, sessionID, roundNumber)
	if err != nil {
		return session.GameRound{}, err
	}
	if round.Status != statuses.StatusActive {
		return session.GameRound{}, errs.ErrInvalidTransition
	}

	if winnerID != "" && winnerID != s.Player1ID && winnerID != s.Player2ID {
		return session.GameRound{}, errs.ErrInvalidPlayer
	}

	now := time.Now()
	round.Status = statuses.StatusCompleted
	round.EndedAt = &now
	round.WinnerID = winnerID

	if err := g.store.UpdateRound(ctx, round); err != nil {
		return session.GameRound{}, err
	}

	if winnerID != "" {
		if winnerID == s.Player1ID {
			s.Player1Score++
		} else {
			s.Player2Score++
		}
		if err := g.store.UpdateSession(ctx, s); err != nil {
			return session.GameRound{}, err
		}
	}

	return round, nil
}

func (g *GameUseCase) GetSession(ctx context.Context, sessionID string) (session.GameSession, error) {
	return g.store.GetSessionByID(ctx, sessionID)
}

func (g *GameUseCase) GetRounds(ctx context.Context, sessionID string) ([]session.GameRound, error) {
	return g.store.ListRounds(ctx, sessionID)
}

func (g *GameUseCase) HasUserActiveSession(ctx context.Context, userID string) (bool, error) {
	return g.store.HasUserActiveSession(ctx, userID)
}

// SessionDuration reports how long the session has been running, in
// seconds.
func (g *GameUseCase) SessionDuration(ctx context.Context, sessionID string) (float64, error) {
	s, err := g.store.GetSessionByID(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return s.Duration(time.Now()), nil
}
